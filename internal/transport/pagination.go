package transport

import (
	"strconv"
)

const PerPage = 10

type Page struct {
	Number int
	Offset int
	Limit  int
}

func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

// PageFromQuery clamps the page number to 1 and fixes the size at PerPage.
func PageFromQuery(raw string) Page {
	n := ParseIntDefault(raw, 1)
	if n < 1 {
		n = 1
	}
	return Page{Number: n, Offset: (n - 1) * PerPage, Limit: PerPage}
}

type Links struct {
	First string  `json:"first"`
	Last  string  `json:"last"`
	Prev  *string `json:"prev"`
	Next  *string `json:"next"`
}

type Meta struct {
	CurrentPage int    `json:"current_page"`
	From        *int   `json:"from"`
	LastPage    int    `json:"last_page"`
	Path        string `json:"path"`
	PerPage     int    `json:"per_page"`
	To          *int   `json:"to"`
	Total       int64  `json:"total"`
}

type Paginated[T any] struct {
	Data  []T   `json:"data"`
	Links Links `json:"links"`
	Meta  Meta  `json:"meta"`
}

func NewPaginated[M any, T any](items []M, total int64, page Page, path string, toResource func(*M) T) Paginated[T] {
	data := make([]T, 0, len(items))
	for i := range items {
		data = append(data, toResource(&items[i]))
	}

	lastPage := int((total + int64(page.Limit) - 1) / int64(page.Limit))
	if lastPage < 1 {
		lastPage = 1
	}

	meta := Meta{
		CurrentPage: page.Number,
		LastPage:    lastPage,
		Path:        path,
		PerPage:     page.Limit,
		Total:       total,
	}
	if len(data) > 0 {
		from := page.Offset + 1
		to := page.Offset + len(data)
		meta.From, meta.To = &from, &to
	}

	links := Links{
		First: pageURL(path, 1),
		Last:  pageURL(path, lastPage),
	}
	if page.Number > 1 {
		prev := pageURL(path, page.Number-1)
		links.Prev = &prev
	}
	if page.Number < lastPage {
		next := pageURL(path, page.Number+1)
		links.Next = &next
	}

	return Paginated[T]{Data: data, Links: links, Meta: meta}
}

func pageURL(path string, n int) string {
	return path + "?page=" + strconv.Itoa(n)
}
