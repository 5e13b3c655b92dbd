package app

import (
	"github.com/louisbranch/liftboard/internal/platform/cursor"
)

// Page is one window of a listing. An empty NextPageToken means the last
// page; HasPrev with an empty PrevPageToken points at the first page.
type Page[T any] struct {
	Items         []T
	NextPageToken string
	PrevPageToken string
	HasPrev       bool
}

// pageWindow resolves a page token into a store offset.
type pageWindow struct {
	filter  string
	orderBy string
	offset  int
	size    int
}

func (s *Service) resolvePage(token string, filter string, orderBy string) (pageWindow, error) {
	offset, err := cursor.Resolve(token, filter, orderBy)
	if err != nil {
		return pageWindow{}, invalid("page", "invalid page token")
	}
	return pageWindow{filter: filter, orderBy: orderBy, offset: offset, size: s.pageSize}, nil
}

// limit asks the store for one extra row to detect a following page.
func (w pageWindow) limit() int {
	return w.size + 1
}

// paginate trims the lookahead row and fills the page tokens.
func paginate[T any](w pageWindow, rows []T) (Page[T], error) {
	page := Page[T]{HasPrev: w.offset > 0}
	if len(rows) > w.size {
		rows = rows[:w.size]
		next, err := cursor.Token(w.offset+w.size, w.filter, w.orderBy)
		if err != nil {
			return Page[T]{}, err
		}
		page.NextPageToken = next
	}
	page.Items = rows
	if page.HasPrev {
		prev, err := cursor.Token(max(w.offset-w.size, 0), w.filter, w.orderBy)
		if err != nil {
			return Page[T]{}, err
		}
		page.PrevPageToken = prev
	}
	return page, nil
}
