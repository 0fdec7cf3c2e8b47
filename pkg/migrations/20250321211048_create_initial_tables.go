package migrations

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

func init() {
	up := func(ctx context.Context, db *bun.DB) error {
		statements := []string{
			`
			CREATE TABLE jobs (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				type TEXT NOT NULL,
				status TEXT NOT NULL,
				data TEXT NOT NULL,
				process_id TEXT
			)
`,
			`CREATE INDEX ix_jobs_type_status ON jobs (type, status)`,
			`
			CREATE TABLE series (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				name TEXT NOT NULL,
				name_sort TEXT NOT NULL
			)
`,
			`CREATE UNIQUE INDEX ux_series_name ON series (name)`,
			`
			CREATE TABLE authors (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				full_name TEXT NOT NULL,
				first_name TEXT,
				middle_name TEXT,
				last_name TEXT,
				full_name_sort TEXT NOT NULL
			)
`,
			`CREATE UNIQUE INDEX ux_authors_full_name ON authors (full_name)`,
			`
			CREATE TABLE genres (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				code TEXT NOT NULL,
				name_ru TEXT NOT NULL,
				name_en TEXT
			)
`,
			`CREATE UNIQUE INDEX ux_genres_code ON genres (code)`,
			`
			CREATE TABLE books (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				title TEXT NOT NULL,
				title_sort TEXT NOT NULL,
				annotation TEXT,
				isbn TEXT,
				lang TEXT,
				path TEXT NOT NULL,
				filename TEXT NOT NULL,
				format TEXT NOT NULL,
				filesize_mb REAL NOT NULL DEFAULT 0,
				publish_date TIMESTAMPTZ,
				available BOOLEAN NOT NULL DEFAULT TRUE,
				is_duplicate BOOLEAN NOT NULL DEFAULT FALSE,
				series_id INTEGER REFERENCES series (id) ON DELETE SET NULL,
				series_number INTEGER
			)
`,
			`CREATE UNIQUE INDEX ux_books_path ON books (path)`,
			`CREATE INDEX ix_books_series_id ON books (series_id)`,
			`CREATE INDEX ix_books_title_sort ON books (title_sort)`,
			`
			CREATE TABLE book_authors (
				book_id INTEGER REFERENCES books (id) ON DELETE CASCADE NOT NULL,
				author_id INTEGER REFERENCES authors (id) ON DELETE CASCADE NOT NULL,
				sort_order INTEGER NOT NULL DEFAULT 0,
				PRIMARY KEY (book_id, author_id)
			)
`,
			`CREATE INDEX ix_book_authors_author_id ON book_authors (author_id)`,
			`
			CREATE TABLE book_genres (
				book_id INTEGER REFERENCES books (id) ON DELETE CASCADE NOT NULL,
				genre_id INTEGER REFERENCES genres (id) ON DELETE CASCADE NOT NULL,
				PRIMARY KEY (book_id, genre_id)
			)
`,
			`CREATE INDEX ix_book_genres_genre_id ON book_genres (genre_id)`,
		}
		for _, stmt := range statements {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return errors.WithStack(err)
			}
		}
		return nil
	}

	down := func(ctx context.Context, db *bun.DB) error {
		for _, table := range []string{"book_genres", "book_authors", "books", "genres", "authors", "series", "jobs"} {
			if _, err := db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
				return errors.WithStack(err)
			}
		}
		return nil
	}

	Migrations.MustRegister(up, down)
}
