package models

import "github.com/uptrace/bun"

// RegisterModels registers the join models used by m2m relations. It must be
// called on every *bun.DB before any query touches Book.Authors or Book.Genres.
func RegisterModels(db *bun.DB) {
	db.RegisterModel((*BookAuthor)(nil), (*BookGenre)(nil))
}
