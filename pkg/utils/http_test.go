package utils

import (
	"encoding/json"
	"io"
	"math"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	all := Paginate(items, 1, 0)
	assert.Equal(t, 1, all.Pages)
	assert.Len(t, all.Items, 5)

	p2 := Paginate(items, 2, 2)
	assert.Equal(t, 3, p2.Pages)
	assert.Equal(t, []int{3, 4}, p2.Items)

	last := Paginate(items, 3, 2)
	assert.Equal(t, []int{5}, last.Items)

	past := Paginate(items, 4, 2)
	assert.Empty(t, past.Items)
	assert.Equal(t, 5, past.Total)
}

func TestPaginateHugePageIsEmpty(t *testing.T) {
	items := []int{1, 2, 3}
	for _, page := range []int{92233720368547759, math.MaxInt, math.MaxInt / 200} {
		var got Page[int]
		require.NotPanics(t, func() { got = Paginate(items, page, MaxPageSize) })
		assert.Empty(t, got.Items, "page %d", page)
		assert.Equal(t, page, got.Page)
	}
}

func TestParsePage(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		page, size := ParsePage(c)
		return c.JSON(fiber.Map{"page": page, "size": size})
	})

	cases := []struct {
		query      string
		page, size int
	}{
		{"", 1, 0},
		{"?page=3&pageSize=20", 3, 20},
		{"?page=-4&pageSize=-1", 1, 0},
		{"?page=abc&pageSize=xyz", 1, 0},
		{"?pageSize=5000", 1, MaxPageSize},
		{"?page=2&pageSize=" + strconv.Itoa(MaxPageSize), 2, MaxPageSize},
	}
	for _, tc := range cases {
		resp, err := app.Test(httptest.NewRequest("GET", "/"+tc.query, nil))
		require.NoError(t, err)
		raw, _ := io.ReadAll(resp.Body)
		var out struct{ Page, Size int }
		require.NoError(t, json.Unmarshal(raw, &out))
		assert.Equal(t, tc.page, out.Page, tc.query)
		assert.Equal(t, tc.size, out.Size, tc.query)
	}
}
