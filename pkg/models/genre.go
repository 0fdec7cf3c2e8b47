package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Genre is a fixed taxonomy entry keyed by its FB2 genre code. Genres are
// seeded by migrations and never created while scanning.
type Genre struct {
	bun.BaseModel `bun:"table:genres,alias:g"`

	ID        int       `bun:",pk,nullzero" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Code      string    `bun:",nullzero" json:"code"`
	NameRu    string    `bun:",nullzero" json:"name_ru"`
	NameEn    string    `bun:",nullzero" json:"name_en,omitempty"`
	BookCount int       `bun:",scanonly" json:"book_count"`
}
