package books

type ListBooksQuery struct {
	Limit    int     `query:"limit" json:"limit,omitempty" default:"24" validate:"min=1,max=100"`
	Offset   int     `query:"offset" json:"offset,omitempty" validate:"min=0"`
	Format   *string `query:"format" json:"format,omitempty" validate:"omitempty,max=10"`
	AuthorID *int    `query:"author_id" json:"author_id,omitempty" validate:"omitempty,min=1"`
	SeriesID *int    `query:"series_id" json:"series_id,omitempty" validate:"omitempty,min=1"`
	GenreID  *int    `query:"genre_id" json:"genre_id,omitempty" validate:"omitempty,min=1"`
	Search   *string `query:"search" json:"search,omitempty" validate:"omitempty,max=100"`
}
