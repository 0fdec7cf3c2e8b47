package catalog

import (
	"strings"
	"time"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006",
	"02.01.2006",
	"02/01/2006",
}

// ParseDate interprets the free-form date of a document. Layouts are tried
// in order and the first match wins. A bare year maps to January 1st.
// Unparseable input yields nil.
func ParseDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if len(layout) != len(raw) {
			continue
		}
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}
