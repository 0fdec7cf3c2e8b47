package fb2

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

const fullDocument = `<?xml version="1.0" encoding="utf-8"?>
<FictionBook xmlns="http://www.gribuser.ru/xml/fictionbook/2.0" xmlns:l="http://www.w3.org/1999/xlink">
  <description>
    <title-info>
      <genre>sf_space</genre>
      <genre>unknown_code</genre>
      <genre>sf_space</genre>
      <author>
        <first-name>Ivan</first-name>
        <middle-name>Petrovich</middle-name>
        <last-name>Ivanov</last-name>
      </author>
      <author>
        <first-name> Anna </first-name>
        <last-name>Smirnova</last-name>
      </author>
      <book-title>  Foo  </book-title>
      <annotation>
        <p>First &amp; <emphasis>best</emphasis>.</p>
        <p>Second.</p>
      </annotation>
      <date value="1999-05-01">1999</date>
      <lang> ru </lang>
      <sequence name="Saga" number="3"/>
    </title-info>
    <publish-info>
      <isbn>978-5-699-12345-6 (print)</isbn>
    </publish-info>
  </description>
  <body><section><p>Text</p></section></body>
</FictionBook>`

func TestParse_FullDocument(t *testing.T) {
	t.Parallel()

	md, err := Parse(context.Background(), strings.NewReader(fullDocument))
	require.NoError(t, err)

	assert.Equal(t, "Foo", md.Title)
	require.Len(t, md.Authors, 2)
	assert.Equal(t, "Ivanov Ivan Petrovich", md.Authors[0].FullName())
	assert.Equal(t, "Smirnova Anna", md.Authors[1].FullName())
	assert.Equal(t, "Anna", md.Authors[1].FirstName)
	assert.Equal(t, []string{"sf_space", "unknown_code", "sf_space"}, md.Genres)
	assert.Equal(t, "First & best . Second.", md.Annotation)
	assert.Equal(t, "1999", md.Date)
	assert.Equal(t, "ru", md.Lang)
	assert.Equal(t, "978-5-699-12345-6", md.ISBN)
	assert.Equal(t, "Saga", md.SeriesName)
	require.NotNil(t, md.SeriesNumber)
	assert.Equal(t, 3, *md.SeriesNumber)
}

func TestParse_OptionalFieldsAbsent(t *testing.T) {
	t.Parallel()

	doc := `<FictionBook><description><title-info></title-info></description></FictionBook>`
	md, err := Parse(context.Background(), strings.NewReader(doc))
	require.NoError(t, err)

	assert.Empty(t, md.Title)
	assert.Empty(t, md.Authors)
	assert.Empty(t, md.Genres)
	assert.Empty(t, md.Annotation)
	assert.Empty(t, md.Lang)
	assert.Empty(t, md.Date)
	assert.Empty(t, md.ISBN)
	assert.Empty(t, md.SeriesName)
	assert.Nil(t, md.SeriesNumber)
}

func TestParse_NoUsableMetadata(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
	}{
		{"no description", `<FictionBook><body/></FictionBook>`},
		{"no title-info", `<FictionBook><description><document-info/></description></FictionBook>`},
		{"title-info outside description", `<FictionBook><title-info><book-title>X</book-title></title-info></FictionBook>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			md, err := Parse(context.Background(), strings.NewReader(tt.doc))
			assert.Nil(t, md)
			assert.ErrorIs(t, err, ErrNoMetadata)
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
	}{
		{"unclosed tag", `<FictionBook><description><title-info><book-title>X</title-info></description></FictionBook>`},
		{"truncated", `<FictionBook><description><title-info>`},
		{"not xml", `%PDF-1.4 binary`},
		{"empty", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			md, err := Parse(context.Background(), strings.NewReader(tt.doc))
			assert.Nil(t, md)
			require.Error(t, err)
			assert.False(t, errors.Is(err, ErrNoMetadata))
		})
	}
}

func TestParse_ExternalEntitiesNotResolved(t *testing.T) {
	t.Parallel()

	secret := filepath.Join(t.TempDir(), "secret.txt")
	require.NoError(t, os.WriteFile(secret, []byte("top-secret"), 0600))

	doc := `<?xml version="1.0"?>
<!DOCTYPE FictionBook [
  <!ENTITY xxe SYSTEM "file://` + secret + `">
]>
<FictionBook><description><title-info><book-title>&xxe;</book-title></title-info></description></FictionBook>`

	md, err := Parse(context.Background(), strings.NewReader(doc))
	require.Error(t, err)
	assert.Nil(t, md)
	assert.NotContains(t, err.Error(), "top-secret")
}

func TestParse_DoctypeWithoutEntitiesIsIgnored(t *testing.T) {
	t.Parallel()

	doc := `<?xml version="1.0"?>
<!DOCTYPE FictionBook SYSTEM "http://example.invalid/fb2.dtd">
<FictionBook><description><title-info><book-title>Safe&nbsp;Title</book-title></title-info></description></FictionBook>`

	md, err := Parse(context.Background(), strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, "Safe\u00a0Title", md.Title)
}

func TestParse_Windows1251(t *testing.T) {
	t.Parallel()

	doc := `<?xml version="1.0" encoding="windows-1251"?>
<FictionBook><description><title-info>
<author><first-name>Иван</first-name><last-name>Иванов</last-name></author>
<book-title>Война и мир</book-title>
</title-info></description></FictionBook>`

	encoded, err := charmap.Windows1251.NewEncoder().String(doc)
	require.NoError(t, err)

	md, err := Parse(context.Background(), strings.NewReader(encoded))
	require.NoError(t, err)
	assert.Equal(t, "Война и мир", md.Title)
	require.Len(t, md.Authors, 1)
	assert.Equal(t, "Иванов Иван", md.Authors[0].FullName())
}

func TestParse_ByteOrderMark(t *testing.T) {
	t.Parallel()

	doc := "\xEF\xBB\xBF<FictionBook><description><title-info><book-title>BOM</book-title></title-info></description></FictionBook>"
	md, err := Parse(context.Background(), strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, "BOM", md.Title)
}

func TestParse_SeriesNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		sequence   string
		wantName   string
		wantNumber *int
	}{
		{"numeric", `<sequence name="Saga" number="12"/>`, "Saga", intPtr(12)},
		{"non numeric number dropped", `<sequence name="Saga" number="1a"/>`, "Saga", nil},
		{"empty number", `<sequence name="Saga" number=""/>`, "Saga", nil},
		{"no number", `<sequence name="Saga"/>`, "Saga", nil},
		{"first sequence wins", `<sequence name="A" number="1"/><sequence name="B" number="2"/>`, "A", intPtr(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			doc := `<FictionBook><description><title-info>` + tt.sequence + `</title-info></description></FictionBook>`
			md, err := Parse(context.Background(), strings.NewReader(doc))
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, md.SeriesName)
			assert.Equal(t, tt.wantNumber, md.SeriesNumber)
		})
	}
}

func TestAuthor_FullName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		author   Author
		expected string
	}{
		{"all parts", Author{FirstName: "Ivan", MiddleName: "Petrovich", LastName: "Ivanov"}, "Ivanov Ivan Petrovich"},
		{"last and first", Author{FirstName: "Ivan", LastName: "Ivanov"}, "Ivanov Ivan"},
		{"first only", Author{FirstName: "Homer"}, "Homer"},
		{"middle only", Author{MiddleName: "X"}, "X"},
		{"empty", Author{}, UnknownAuthor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, tt.author.FullName())
		})
	}
}

func TestSanitizeISBN(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "978-5-699-12345-6", SanitizeISBN("978-5-699-12345-6 (print)"))
	assert.Equal(t, "0-8044-2957-X", SanitizeISBN("0-8044-2957-X"))
	assert.Equal(t, "5-17-012345-6", SanitizeISBN("ISBN: 5-17-012345-6"))
	assert.Equal(t, "", SanitizeISBN("n/a"))
	assert.Len(t, SanitizeISBN(strings.Repeat("1", 80)), ISBNMaxLen)
}

func TestParseFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "book.fb2")
	require.NoError(t, os.WriteFile(path, []byte(fullDocument), 0644))

	md, err := ParseFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Foo", md.Title)

	_, err = ParseFile(context.Background(), filepath.Join(t.TempDir(), "missing.fb2"))
	assert.Error(t, err)
}

func intPtr(i int) *int {
	return &i
}
