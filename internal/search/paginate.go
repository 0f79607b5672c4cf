package search

// Page is one slice of a sorted result pool.
type Page[T any] struct {
	Items   []T
	Total   int
	HasMore bool
}

// Paginate returns the 1-indexed page of pool. A page below 1 is treated as
// 1. A non-positive limit yields an empty slice with the total intact and
// HasMore false.
func Paginate[T any](pool []T, page, limit int) Page[T] {
	total := len(pool)
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		return Page[T]{Items: []T{}, Total: total}
	}

	start := (page - 1) * limit
	if start > total || start < 0 {
		start = total
	}
	end := start + limit
	if end > total || end < start {
		end = total
	}

	items := make([]T, end-start)
	copy(items, pool[start:end])
	return Page[T]{
		Items:   items,
		Total:   total,
		HasMore: total > page*limit,
	}
}
