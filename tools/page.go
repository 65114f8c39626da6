package tools

// Pagination 列表接口的分页参数，嵌入到查询请求结构体中使用
type Pagination struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

// Normalize 页码从 1 开始，page_size 超出范围时取默认值
func (p *Pagination) Normalize(defaultPageSize, maxPageSize int) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 || p.PageSize > maxPageSize {
		p.PageSize = defaultPageSize
	}
}

func (p *Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func (p *Pagination) TotalPages(total int64) int64 {
	return (total + int64(p.PageSize) - 1) / int64(p.PageSize)
}
