// Package sortname builds the sort keys stored next to book titles.
package sortname

import (
	"strings"
)

// TitleArticles are moved to the end of a title ("The Hobbit" -> "Hobbit, The").
var TitleArticles = []string{"The", "A", "An"}

// leadingMarks are stripped from the start of titles. Russian titles are
// frequently wrapped in guillemets or low-high quotes.
const leadingMarks = `«»„“”"'‘’…. -—–`

// ForTitle generates a sort key from a title or series name.
//
//   - "The Hobbit" -> "Hobbit, The"
//   - "«Мастер и Маргарита»" -> "Мастер и Маргарита»"
//   - "...и другие" -> "и другие"
func ForTitle(title string) string {
	title = strings.Join(strings.Fields(title), " ")
	if title == "" {
		return ""
	}

	if trimmed := strings.TrimLeft(title, leadingMarks); trimmed != "" {
		title = trimmed
	}

	for _, article := range TitleArticles {
		prefix := article + " "
		if len(title) <= len(prefix) || !strings.EqualFold(title[:len(prefix)], prefix) {
			continue
		}
		if rest := strings.TrimSpace(title[len(prefix):]); rest != "" {
			return rest + ", " + title[:len(article)]
		}
	}

	return title
}
