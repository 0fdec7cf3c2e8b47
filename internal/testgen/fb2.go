package testgen

import (
	"bytes"
	"fmt"
	"html"
	"testing"
)

type FB2Author struct {
	First, Middle, Last string
}

// FB2Options configures the generated FictionBook document. Empty fields are
// omitted from the rendered XML.
type FB2Options struct {
	Title        string
	Authors      []FB2Author
	Genres       []string
	Annotation   string // raw inner XML, not escaped
	Lang         string
	Date         string
	Series       string
	SeriesNumber string
	ISBN         string
}

// FB2 renders a minimal FictionBook 2 document.
func FB2(opts FB2Options) []byte {
	var b bytes.Buffer
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<FictionBook xmlns="http://www.gribuser.ru/xml/fictionbook/2.0"><description><title-info>`)
	for _, g := range opts.Genres {
		writeElem(&b, "genre", g)
	}
	for _, a := range opts.Authors {
		b.WriteString("<author>")
		writeElem(&b, "first-name", a.First)
		writeElem(&b, "middle-name", a.Middle)
		writeElem(&b, "last-name", a.Last)
		b.WriteString("</author>")
	}
	writeElem(&b, "book-title", opts.Title)
	if opts.Annotation != "" {
		fmt.Fprintf(&b, "<annotation>%s</annotation>", opts.Annotation)
	}
	writeElem(&b, "date", opts.Date)
	writeElem(&b, "lang", opts.Lang)
	if opts.Series != "" {
		fmt.Fprintf(&b, `<sequence name="%s"`, html.EscapeString(opts.Series))
		if opts.SeriesNumber != "" {
			fmt.Fprintf(&b, ` number="%s"`, html.EscapeString(opts.SeriesNumber))
		}
		b.WriteString("/>")
	}
	b.WriteString("</title-info>")
	if opts.ISBN != "" {
		fmt.Fprintf(&b, "<publish-info><isbn>%s</isbn></publish-info>", html.EscapeString(opts.ISBN))
	}
	b.WriteString("</description><body><section><p>text</p></section></body></FictionBook>")
	return b.Bytes()
}

// WriteFB2 renders opts and writes the document to path.
func WriteFB2(t testing.TB, path string, opts FB2Options) {
	t.Helper()
	WriteFile(t, path, FB2(opts))
}

func writeElem(b *bytes.Buffer, name, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "<%s>%s</%s>", name, html.EscapeString(value), name)
}
