package pagination

// Page parameters below 1 or above the cap are clamped, never rejected.
func Clamp(page, pageSize, defaultSize, maxSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultSize
	}
	if pageSize > maxSize {
		pageSize = maxSize
	}
	return page, pageSize
}

func Offset(page, pageSize int) int {
	return (page - 1) * pageSize
}

type Meta struct {
	Total      int64
	Page       int
	TotalPages int
	HasNext    bool
	HasPrev    bool
}

func NewMeta(total int64, page, pageSize int) Meta {
	pages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return Meta{
		Total:      total,
		Page:       page,
		TotalPages: pages,
		HasNext:    page < pages,
		HasPrev:    page > 1 && total > 0,
	}
}
