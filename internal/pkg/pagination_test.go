package pkg

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name      string
		in        PaginationParams
		wantPage  int
		wantLimit int
	}{
		{name: "defaults", in: PaginationParams{}, wantPage: 1, wantLimit: 10},
		{name: "keeps valid values", in: PaginationParams{Page: 3, Limit: 25}, wantPage: 3, wantLimit: 25},
		{name: "caps limit", in: PaginationParams{Page: 1, Limit: 500}, wantPage: 1, wantLimit: 100},
		{name: "negative page", in: PaginationParams{Page: -2, Limit: 5}, wantPage: 1, wantLimit: 5},
		{name: "caps page", in: PaginationParams{Page: math.MaxInt, Limit: 100}, wantPage: MaxPage, wantLimit: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.in
			p.Normalize()
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantLimit, p.Limit)
		})
	}
}

func TestOffset(t *testing.T) {
	p := &PaginationParams{Page: 3, Limit: 20}
	assert.Equal(t, 40, p.Offset())

	var nilParams *PaginationParams
	assert.Equal(t, 0, nilParams.Offset())

	huge := &PaginationParams{Page: math.MaxInt, Limit: math.MaxInt}
	assert.Equal(t, (MaxPage-1)*MaxLimit, huge.Offset())
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 1, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 2, TotalPages(11, 10))
	assert.Equal(t, 3, TotalPages(21, 0))
}

func TestNewPaginatedResponseNeverReturnsNilData(t *testing.T) {
	resp := NewPaginatedResponse[string](nil, 1, 10, 0)
	assert.NotNil(t, resp.Data)
	assert.Equal(t, 1, resp.TotalPages)
}

func TestPageOf(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	page := PageOf(items, &PaginationParams{Page: 2, Limit: 2})
	assert.Equal(t, []int{3, 4}, page.Data)
	assert.Equal(t, int64(5), page.Total)
	assert.Equal(t, 3, page.TotalPages)

	far := PageOf(items, &PaginationParams{Page: math.MaxInt, Limit: 2})
	assert.Empty(t, far.Data)
	assert.Equal(t, MaxPage, far.Page)

	past := PageOf(items, &PaginationParams{Page: 9, Limit: 2})
	assert.Empty(t, past.Data)
	assert.NotNil(t, past.Data)

	all := PageOf(items, nil)
	assert.Len(t, all.Data, 5)
	assert.Equal(t, 1, all.Page)
}
