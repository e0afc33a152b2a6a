package models

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// PaginationQuery 表示报告列表的分页查询参数
type PaginationQuery struct {
	PageNum  int `form:"pageNum" json:"pageNum"`
	PageSize int `form:"pageSize" json:"pageSize"`
}

// Normalize clamps the query to usable values: page numbers start at 1 and
// the page size falls back to the default outside (0, maxPageSize]
func (q *PaginationQuery) Normalize() {
	if q.PageNum < 1 {
		q.PageNum = 1
	}
	if q.PageSize < 1 || q.PageSize > maxPageSize {
		q.PageSize = defaultPageSize
	}
}

// Bounds returns the [start, end) slice window for a list of total items
func (q PaginationQuery) Bounds(total int) (int, int) {
	start := (q.PageNum - 1) * q.PageSize
	if start > total {
		start = total
	}
	end := start + q.PageSize
	if end > total {
		end = total
	}
	return start, end
}

// PaginationResult 表示分页结果元数据
type PaginationResult struct {
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
	PageNum    int `json:"pageNum"`
	PageSize   int `json:"pageSize"`
}

// NewPaginationResult 创建一个新的分页结果对象
func NewPaginationResult(total int, query PaginationQuery) PaginationResult {
	pages := 0
	if query.PageSize > 0 {
		pages = (total + query.PageSize - 1) / query.PageSize
	}
	return PaginationResult{
		Total:      total,
		TotalPages: pages,
		PageNum:    query.PageNum,
		PageSize:   query.PageSize,
	}
}
