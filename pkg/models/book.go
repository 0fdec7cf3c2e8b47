package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	BookTitleMaxLen = 500
	BookLangMaxLen  = 10
	BookISBNMaxLen  = 50
	BookPathMaxLen  = 1000
)

type Book struct {
	bun.BaseModel `bun:"table:books,alias:b"`

	ID           int        `bun:",pk,nullzero" json:"id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Title        string     `bun:",nullzero" json:"title"`
	TitleSort    string     `bun:",nullzero" json:"title_sort"`
	Annotation   string     `bun:",nullzero" json:"annotation,omitempty"`
	ISBN         string     `bun:"isbn,nullzero" json:"isbn,omitempty"`
	Lang         string     `bun:",nullzero" json:"lang,omitempty"`
	Path         string     `bun:",nullzero" json:"path"`
	Filename     string     `bun:",nullzero" json:"filename"`
	Format       string     `bun:",nullzero" json:"format"`
	FilesizeMB   float64    `bun:"filesize_mb" json:"filesize_mb"`
	PublishDate  *time.Time `json:"publish_date,omitempty"`
	Available    bool       `bun:",notnull" json:"available"`
	IsDuplicate  bool       `bun:",notnull" json:"is_duplicate"`
	SeriesID     *int       `json:"series_id,omitempty"`
	Series       *Series    `bun:"rel:belongs-to,join:series_id=id" json:"series,omitempty"`
	SeriesNumber *int       `json:"series_number,omitempty"`
	Authors      []*Author  `bun:"m2m:book_authors,join:Book=Author" json:"authors,omitempty"`
	Genres       []*Genre   `bun:"m2m:book_genres,join:Book=Genre" json:"genres,omitempty"`
}

// AddAuthor links the author to the book on both sides of the association.
// Adding the same author twice is a no-op.
func (b *Book) AddAuthor(author *Author) {
	for _, a := range b.Authors {
		if a == author || (a.ID != 0 && a.ID == author.ID) {
			return
		}
	}
	b.Authors = append(b.Authors, author)
	author.Books = append(author.Books, b)
}

// AddGenre links the genre to the book. Adding the same genre twice is a no-op.
func (b *Book) AddGenre(genre *Genre) {
	for _, g := range b.Genres {
		if g == genre || (g.ID != 0 && g.ID == genre.ID) {
			return
		}
	}
	b.Genres = append(b.Genres, genre)
}

// SetSeries points the book at the series with the given position, which may be nil.
func (b *Book) SetSeries(series *Series, number *int) {
	b.Series = series
	b.SeriesNumber = number
	if series != nil && series.ID != 0 {
		b.SeriesID = &series.ID
	}
}

type BookAuthor struct {
	bun.BaseModel `bun:"table:book_authors,alias:ba"`

	BookID    int     `bun:",pk" json:"book_id"`
	Book      *Book   `bun:"rel:belongs-to,join:book_id=id" json:"-"`
	AuthorID  int     `bun:",pk" json:"author_id"`
	Author    *Author `bun:"rel:belongs-to,join:author_id=id" json:"author,omitempty"`
	SortOrder int     `json:"sort_order"`
}

type BookGenre struct {
	bun.BaseModel `bun:"table:book_genres,alias:bg"`

	BookID  int    `bun:",pk" json:"book_id"`
	Book    *Book  `bun:"rel:belongs-to,join:book_id=id" json:"-"`
	GenreID int    `bun:",pk" json:"genre_id"`
	Genre   *Genre `bun:"rel:belongs-to,join:genre_id=id" json:"genre,omitempty"`
}
