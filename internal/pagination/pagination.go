// Package pagination slices already sorted result sets into pages.
package pagination

// Page is one slice of a result set.
type Page[T any] struct {
	Rows       []T `json:"rows"`
	Page       int `json:"page"`
	PageCount  int `json:"pageCount"`
	TotalCount int `json:"totalCount"`
}

// PageCount returns max(1, ceil(total/pageSize)). A pageSize below 1 puts
// everything on a single page.
func PageCount(total, pageSize int) int {
	if pageSize < 1 || total <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

// Paginate returns rows[(pageNumber-1)*pageSize : pageNumber*pageSize]. It does
// not sort or clamp: a page past the end, or below 1, is empty. The offset is
// only computed for pages inside [1, PageCount], so it cannot overflow.
func Paginate[T any](rows []T, pageSize, pageNumber int) Page[T] {
	total := len(rows)
	page := Page[T]{
		Rows:       []T{},
		Page:       pageNumber,
		PageCount:  PageCount(total, pageSize),
		TotalCount: total,
	}

	if pageSize < 1 {
		if pageNumber == 1 {
			page.Rows = rows
		}
		return page
	}
	if pageNumber < 1 || pageNumber > page.PageCount {
		return page
	}

	start := (pageNumber - 1) * pageSize
	if start >= total {
		return page
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	page.Rows = rows[start:end]
	return page
}

// ClampPage pins pageNumber into [1, pageCount].
func ClampPage(pageNumber, pageCount int) int {
	if pageCount < 1 {
		pageCount = 1
	}
	switch {
	case pageNumber < 1:
		return 1
	case pageNumber > pageCount:
		return pageCount
	default:
		return pageNumber
	}
}
