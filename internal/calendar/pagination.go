package calendar

const (
	DefaultPageSize = 20
	MaxPageSize     = 200
)

// Page: одна страница списка вместе с метаданными для ответа API.
type Page[T any] struct {
	Items    []T  `json:"items"`
	Page     int  `json:"page"`      // с 1
	PageSize int  `json:"page_size"`
	HasNext  bool `json:"has_next"`
	HasPrev  bool `json:"has_prev"`
	Total    int  `json:"total"`
}

// Paginate режет items на страницу page размера pageSize.
// Некорректные page/pageSize заменяются дефолтами, pageSize ограничен MaxPageSize.
func Paginate[T any](items []T, page, pageSize int) Page[T] {
	total := len(items)

	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	if page <= 0 {
		page = 1
	}

	// страницы за концом списка пустые; проверка до умножения, чтобы огромный page не переполнил int
	start := total
	if page-1 <= total/pageSize {
		start = min((page-1)*pageSize, total)
	}
	end := min(start+pageSize, total)

	pageItems := items[start:end]
	if pageItems == nil {
		pageItems = []T{}
	}

	return Page[T]{
		Items:    pageItems,
		Page:     page,
		PageSize: pageSize,
		HasNext:  end < total,
		HasPrev:  page > 1,
		Total:    total,
	}
}
