package util

import (
	"math"
	"strconv"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

// Calculate normalizes page and size and returns the slice window for them.
func Calculate(page, size int) (p, offset, limit int) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > MaxPageSize {
		size = DefaultPageSize
	}
	if page > math.MaxInt/size {
		page = math.MaxInt / size
	}
	return page, (page - 1) * size, size
}

// Window returns items[offset:offset+limit], clamped to the slice bounds.
func Window[T any](items []T, offset, limit int) []T {
	if offset < 0 || offset >= len(items) {
		return []T{}
	}
	if limit < 0 || limit > len(items)-offset {
		return items[offset:]
	}
	return items[offset : offset+limit]
}
