package transport

import (
	"github.com/Skotchmaster/stock_dashboard/internal/catalog"
	"github.com/Skotchmaster/stock_dashboard/internal/models"
	"github.com/Skotchmaster/stock_dashboard/internal/session"
)

type MessageResponse struct {
	Message string `json:"message"`
}

type SignInResponse struct {
	Session session.Session `json:"session"`
	Message string          `json:"message"`
}

type PageMeta struct {
	Page       int  `json:"page"`
	Size       int  `json:"size"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasPrev    bool `json:"has_prev"`
	HasNext    bool `json:"has_next"`
}

func NewPageMeta(page, size, total int) *PageMeta {
	return &PageMeta{
		Page:       page,
		Size:       size,
		Total:      total,
		TotalPages: (total + size - 1) / size,
		HasPrev:    page > 1,
		HasNext:    page*size < total,
	}
}

// ProductListResponse carries the filtered items and whole-catalog stats.
type ProductListResponse struct {
	Items   []models.Product `json:"items"`
	Stats   catalog.Stats    `json:"stats"`
	Empty   string           `json:"empty,omitempty"`
	Meta    *PageMeta        `json:"meta,omitempty"`
	Message string           `json:"message,omitempty"`
}
