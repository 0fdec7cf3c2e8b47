package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Series struct {
	bun.BaseModel `bun:"table:series,alias:s"`

	ID        int       `bun:",pk,nullzero" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `bun:",nullzero" json:"name"`
	NameSort  string    `bun:",nullzero" json:"name_sort"`
	Books     []*Book   `bun:"rel:has-many,join:id=series_id" json:"books,omitempty"`
	BookCount int       `bun:",scanonly" json:"book_count"`
}
