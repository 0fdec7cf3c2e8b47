package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Author struct {
	bun.BaseModel `bun:"table:authors,alias:a"`

	ID           int       `bun:",pk,nullzero" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	FullName     string    `bun:",nullzero" json:"full_name"`
	FirstName    string    `bun:",nullzero" json:"first_name,omitempty"`
	MiddleName   string    `bun:",nullzero" json:"middle_name,omitempty"`
	LastName     string    `bun:",nullzero" json:"last_name,omitempty"`
	FullNameSort string    `bun:",nullzero" json:"full_name_sort"`
	Books        []*Book   `bun:"m2m:book_authors,join:Author=Book" json:"-"`
}
