package domain

const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

type Pagination struct {
	Page     int `validate:"min=1"`
	PageSize int `validate:"min=1,max=100"`
}

func (f Pagination) Limit() int {
	return f.PageSize
}

func (f Pagination) Offset() int {
	return (f.Page - 1) * f.PageSize
}
