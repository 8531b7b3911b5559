package models

import (
	"time"

	"github.com/goccy/go-json"
)

// Portfolio is a hosted site. Content is the builder's document and is
// stored and returned verbatim.
//
// Subdomain is globally unique and immutable once created. Views only grows.
type Portfolio struct {
	ID          string
	UserID      string
	Subdomain   string
	IsPublished bool
	Views       int64
	Content     json.RawMessage
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PortfolioView is the client-facing projection; the owner reference is
// stripped.
type PortfolioView struct {
	ID          string          `json:"id"`
	Subdomain   string          `json:"subdomain"`
	IsPublished bool            `json:"isPublished"`
	Views       int64           `json:"views"`
	Content     json.RawMessage `json:"content"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// View returns the client-facing projection of p.
func (p *Portfolio) View() *PortfolioView {
	content := p.Content
	if len(content) == 0 {
		content = json.RawMessage(`{}`)
	}
	return &PortfolioView{
		ID:          p.ID,
		Subdomain:   p.Subdomain,
		IsPublished: p.IsPublished,
		Views:       p.Views,
		Content:     content,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
