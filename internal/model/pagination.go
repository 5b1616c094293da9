package model

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Pagination is a validated page request.
type Pagination struct {
	Page  int
	Limit int
	Sort  string
	Order SortOrder
}

func (p Pagination) Skip() int {
	return (p.Page - 1) * p.Limit
}

// PageMeta describes where a page sits in the full result set.
type PageMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

func NewPageMeta(p Pagination, total int64) PageMeta {
	pages := 0
	if p.Limit > 0 {
		pages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}

	return PageMeta{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: pages,
		HasNext:    p.Page < pages,
		HasPrev:    p.Page > 1,
	}
}

// ArticlePage is one page of a listing.
type ArticlePage struct {
	Articles []*Article
	Meta     PageMeta
}

// LucidMeta is the page envelope the SQL backend returns, shaped like the
// paginator of the admin SPA expects.
type LucidMeta struct {
	Total       int64 `json:"total"`
	PerPage     int   `json:"perPage"`
	CurrentPage int   `json:"currentPage"`
	LastPage    int   `json:"lastPage"`
	FirstPage   int   `json:"firstPage"`
}

func NewLucidMeta(page, perPage int, total int64) LucidMeta {
	last := 1
	if perPage > 0 && total > 0 {
		last = int((total + int64(perPage) - 1) / int64(perPage))
	}

	return LucidMeta{
		Total:       total,
		PerPage:     perPage,
		CurrentPage: page,
		LastPage:    last,
		FirstPage:   1,
	}
}
