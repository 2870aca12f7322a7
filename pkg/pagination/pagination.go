package pagination

// MaxPageSize bounds client-supplied page sizes.
const MaxPageSize = 100

// Params holds page-number pagination inputs from controllers or services.
type Params struct {
	Page     int
	PageSize int
}

// Meta describes the page bounds for a paginated result set.
type Meta struct {
	Page        int   `json:"page"`
	PageSize    int   `json:"page_size"`
	TotalCount  int64 `json:"total_count"`
	TotalPages  int   `json:"total_pages"`
	HasPrevious bool  `json:"has_previous"`
	HasNext     bool  `json:"has_next"`
}

// Normalize clamps the page to at least 1 and applies the fallback page size.
func Normalize(p Params, defaultPageSize int) Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = defaultPageSize
	}
	return p
}

// Offset returns the row offset for the page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// NewMeta computes the page bounds for a total row count.
func NewMeta(p Params, totalCount int64) Meta {
	totalPages := int((totalCount + int64(p.PageSize) - 1) / int64(p.PageSize))
	return Meta{
		Page:        p.Page,
		PageSize:    p.PageSize,
		TotalCount:  totalCount,
		TotalPages:  totalPages,
		HasPrevious: p.Page > 1,
		HasNext:     p.Page < totalPages,
	}
}
