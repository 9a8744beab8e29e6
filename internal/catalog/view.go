// Package catalog derives what a dashboard shows from a fetched product list
// and shapes create/update/delete requests against the product store.
package catalog

import (
	"strings"

	"github.com/Skotchmaster/stock_dashboard/internal/models"
)

type StatusFilter string

const (
	StatusAll        StatusFilter = "all"
	StatusInStock    StatusFilter = "in-stock"
	StatusOutOfStock StatusFilter = "out-of-stock"
)

// ParseStatusFilter maps unknown or empty values to StatusAll.
func ParseStatusFilter(s string) StatusFilter {
	switch StatusFilter(s) {
	case StatusInStock, StatusOutOfStock:
		return StatusFilter(s)
	}
	return StatusAll
}

type Filter struct {
	SearchTerm string
	Status     StatusFilter
}

func (f Filter) Active() bool {
	return f.SearchTerm != "" || (f.Status != "" && f.Status != StatusAll)
}

type Stats struct {
	TotalCount      int     `json:"total_count"`
	InStockCount    int     `json:"in_stock_count"`
	OutOfStockCount int     `json:"out_of_stock_count"`
	TotalValue      float64 `json:"total_value"`
}

type EmptyState string

const (
	EmptyNone       EmptyState = ""
	EmptyNoProducts EmptyState = "no-products"
	EmptyNoMatches  EmptyState = "no-matches"
)

type View struct {
	Items  []models.Product `json:"items"`
	Stats  Stats            `json:"stats"`
	Filter Filter           `json:"-"`
	Empty  EmptyState       `json:"empty,omitempty"`
}

// Apply filters by name substring (case-insensitive) and then by stock status.
// Input order is kept.
func Apply(products []models.Product, f Filter) []models.Product {
	term := strings.ToLower(f.SearchTerm)
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if term != "" && !strings.Contains(strings.ToLower(p.Name), term) {
			continue
		}
		switch f.Status {
		case StatusInStock:
			if p.Quantity <= 0 {
				continue
			}
		case StatusOutOfStock:
			if p.Quantity != 0 {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

func Summarize(products []models.Product) Stats {
	s := Stats{TotalCount: len(products)}
	for _, p := range products {
		if p.Quantity > 0 {
			s.InStockCount++
		}
		if p.Quantity == 0 {
			s.OutOfStockCount++
		}
		s.TotalValue += p.TotalValue()
	}
	return s
}

// Derive builds the view. Stats always cover the whole collection.
func Derive(products []models.Product, f Filter) View {
	v := View{
		Items:  Apply(products, f),
		Stats:  Summarize(products),
		Filter: f,
	}
	if len(v.Items) == 0 {
		if f.Active() {
			v.Empty = EmptyNoMatches
		} else {
			v.Empty = EmptyNoProducts
		}
	}
	return v
}
