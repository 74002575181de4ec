package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name          string
		page, size    int
		offset, limit int
	}{
		{name: "defaults", page: 0, size: 0, offset: 0, limit: DefaultPageSize},
		{name: "second page", page: 2, size: 5, offset: 5, limit: 5},
		{name: "oversized", page: 1, size: 1000, offset: 0, limit: DefaultPageSize},
		{name: "negative page", page: -3, size: 10, offset: 0, limit: 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			off, lim := Calculate(tt.page, tt.size)
			assert.Equal(t, tt.offset, off)
			assert.Equal(t, tt.limit, lim)
		})
	}
}

func TestParseIntDefault(t *testing.T) {
	assert.Equal(t, 7, ParseIntDefault("7", 1))
	assert.Equal(t, 1, ParseIntDefault("", 1))
	assert.Equal(t, 1, ParseIntDefault("x", 1))
}

func TestMeta(t *testing.T) {
	m := Meta(2, 5, 5, 12)
	assert.EqualValues(t, 3, m["total_pages"])
	assert.Equal(t, true, m["has_prev"])
	assert.Equal(t, true, m["has_next"])

	m = Meta(3, 5, 10, 12)
	assert.Equal(t, false, m["has_next"])
}
