package genres

type ListGenresQuery struct {
	Limit    int     `query:"limit" json:"limit,omitempty" default:"50" validate:"min=1,max=200"`
	Offset   int     `query:"offset" json:"offset,omitempty" validate:"min=0"`
	Search   *string `query:"search" json:"search,omitempty" validate:"omitempty,max=100"`
	NonEmpty bool    `query:"non_empty" json:"non_empty,omitempty"`
}
