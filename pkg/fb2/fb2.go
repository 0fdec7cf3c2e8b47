// Package fb2 extracts bibliographic metadata from FictionBook 2 documents.
package fb2

import (
	"bufio"
	"bytes"
	"context"
	"encoding/xml"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/sopds/catalog/pkg/htmlutil"
	"golang.org/x/net/html/charset"
)

const ISBNMaxLen = 50

// ErrNoMetadata is returned for well-formed documents that lack the
// description or title-info sections.
var ErrNoMetadata = errors.New("fb2: no usable metadata")

// UnknownAuthor is the full name of an author entry with no name parts.
const UnknownAuthor = "Unknown Author"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var isbnJunk = regexp.MustCompile(`[^0-9X-]`)

type Author struct {
	FirstName  string
	MiddleName string
	LastName   string
}

// FullName joins the last, first and middle names with single spaces,
// skipping empty parts.
func (a Author) FullName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{a.LastName, a.FirstName, a.MiddleName} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return UnknownAuthor
	}
	return strings.Join(parts, " ")
}

type Metadata struct {
	Title        string
	Authors      []Author
	Genres       []string
	Annotation   string
	Lang         string
	Date         string
	ISBN         string
	SeriesName   string
	SeriesNumber *int
}

type textNode struct {
	Text string `xml:",chardata"`
}

type document struct {
	Description *struct {
		TitleInfo *struct {
			Genre  []textNode `xml:"genre"`
			Author []struct {
				FirstName  []textNode `xml:"first-name"`
				MiddleName []textNode `xml:"middle-name"`
				LastName   []textNode `xml:"last-name"`
			} `xml:"author"`
			BookTitle  []textNode `xml:"book-title"`
			Annotation []struct {
				Inner string `xml:",innerxml"`
			} `xml:"annotation"`
			Date []struct {
				Text  string `xml:",chardata"`
				Value string `xml:"value,attr"`
			} `xml:"date"`
			Lang     []textNode `xml:"lang"`
			Sequence []struct {
				Name   string `xml:"name,attr"`
				Number string `xml:"number,attr"`
			} `xml:"sequence"`
		} `xml:"title-info"`
		PublishInfo *struct {
			ISBN []textNode `xml:"isbn"`
		} `xml:"publish-info"`
	} `xml:"description"`
}

// first returns the trimmed text of the first node, or "" when there is none.
func first(nodes []textNode) string {
	if len(nodes) == 0 {
		return ""
	}
	return strings.TrimSpace(nodes[0].Text)
}

// Parse reads a whole FB2 document from r. Malformed input yields an error and
// no metadata. Documents without description/title-info yield ErrNoMetadata.
//
// External entities and DTDs are never resolved; references to entities that
// aren't predefined XML or HTML entities are parse errors.
func Parse(ctx context.Context, r io.Reader) (*Metadata, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	d := xml.NewDecoder(br)
	d.Strict = true
	d.Entity = xml.HTMLEntity
	d.CharsetReader = charset.NewReaderLabel

	var doc document
	if err := d.Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "fb2: malformed document")
	}

	if doc.Description == nil || doc.Description.TitleInfo == nil {
		return nil, ErrNoMetadata
	}
	ti := doc.Description.TitleInfo

	md := &Metadata{
		Title:   first(ti.BookTitle),
		Lang:    first(ti.Lang),
		Authors: make([]Author, 0, len(ti.Author)),
		Genres:  make([]string, 0, len(ti.Genre)),
	}

	for _, a := range ti.Author {
		md.Authors = append(md.Authors, Author{
			FirstName:  first(a.FirstName),
			MiddleName: first(a.MiddleName),
			LastName:   first(a.LastName),
		})
	}

	for _, g := range ti.Genre {
		md.Genres = append(md.Genres, strings.TrimSpace(g.Text))
	}

	if len(ti.Annotation) > 0 {
		md.Annotation = htmlutil.StripTags(ti.Annotation[0].Inner)
	}

	if len(ti.Date) > 0 {
		md.Date = strings.TrimSpace(ti.Date[0].Text)
		if md.Date == "" {
			md.Date = strings.TrimSpace(ti.Date[0].Value)
		}
	}

	if len(ti.Sequence) > 0 {
		seq := ti.Sequence[0]
		md.SeriesName = strings.TrimSpace(seq.Name)
		if num := strings.TrimSpace(seq.Number); num != "" {
			n, err := strconv.Atoi(num)
			if err != nil {
				logger.FromContext(ctx).Warn("invalid series number", logger.Data{"series": md.SeriesName, "number": num})
			} else {
				md.SeriesNumber = &n
			}
		}
	}

	if pi := doc.Description.PublishInfo; pi != nil {
		md.ISBN = SanitizeISBN(first(pi.ISBN))
	}

	return md, nil
}

// ParseFile is Parse over the file at path.
func ParseFile(ctx context.Context, path string) (*Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer f.Close()
	return Parse(ctx, f)
}

// SanitizeISBN drops every character that isn't a digit, 'X' or '-', then
// truncates to ISBNMaxLen.
func SanitizeISBN(raw string) string {
	s := isbnJunk.ReplaceAllString(raw, "")
	if len(s) > ISBNMaxLen {
		s = s[:ISBNMaxLen]
	}
	return s
}
