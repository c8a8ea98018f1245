package utils

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// ParamID reads a positive integer route parameter.
func ParamID(c *fiber.Ctx, name string) (int, error) {
	id, err := strconv.Atoi(c.Params(name))
	if err != nil || id < 1 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

// Page is one slice of a listing.
type Page[T any] struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
	Total    int `json:"total"`
	Pages    int `json:"pages"`
	Items    []T `json:"items"`
}

// MaxPageSize caps ?pageSize.
const MaxPageSize = 200

// ParsePage reads ?page and ?pageSize. pageSize=0 (the default) means the
// whole listing in one page; larger sizes are clamped to MaxPageSize.
func ParsePage(c *fiber.Ctx) (page, size int) {
	page, _ = strconv.Atoi(c.Query("page", "1"))
	size, _ = strconv.Atoi(c.Query("pageSize", "0"))
	if page < 1 {
		page = 1
	}
	if size < 0 {
		size = 0
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return
}

// Paginate cuts items into the requested page.
func Paginate[T any](items []T, page, size int) Page[T] {
	total := len(items)
	if size == 0 {
		return Page[T]{Page: 1, PageSize: total, Total: total, Pages: 1, Items: items}
	}
	pages := (total + size - 1) / size
	// past the last page: empty items, no multiplication that could overflow
	start := total
	if page <= pages {
		start = (page - 1) * size
	}
	end := min(start+size, total)
	return Page[T]{Page: page, PageSize: size, Total: total, Pages: pages, Items: items[start:end]}
}
