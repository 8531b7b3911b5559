package rest

import (
	"net/http"

	"github.com/HazimBhatt/sharefolio/internal/common"
	"github.com/HazimBhatt/sharefolio/internal/server/models"
	"github.com/HazimBhatt/sharefolio/internal/server/services"
	"github.com/go-chi/chi/v5"
)

type portfolioResponse struct {
	Portfolio *models.PortfolioView `json:"portfolio"`
}

type portfolioListResponse struct {
	Portfolios []*models.PortfolioView `json:"portfolios"`
	Count      int                     `json:"count"`
}

type setPublishedRequest struct {
	IsPublished *bool `json:"isPublished"`
}

func (h *Handler) getPublic(w http.ResponseWriter, r *http.Request) {
	p, err := h.portfolios.GetPublic(r.Context(), chi.URLParam(r, "subdomain"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, portfolioResponse{Portfolio: p.View()})
}

func (h *Handler) listOwned(w http.ResponseWriter, r *http.Request) {
	id, _ := identity(r)

	list, err := h.portfolios.ListOwned(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	views := make([]*models.PortfolioView, 0, len(list))
	for _, p := range list {
		views = append(views, p.View())
	}

	writeJSON(w, http.StatusOK, portfolioListResponse{Portfolios: views, Count: len(views)})
}

func (h *Handler) createPortfolio(w http.ResponseWriter, r *http.Request) {
	id, _ := identity(r)

	var in services.CreatePortfolioInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, err)
		return
	}

	p, err := h.portfolios.Create(r.Context(), id, in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, portfolioResponse{Portfolio: p.View()})
}

func (h *Handler) setPublished(w http.ResponseWriter, r *http.Request) {
	id, _ := identity(r)

	var in setPublishedRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, err)
		return
	}
	if in.IsPublished == nil {
		writeError(w, common.NewValidationError("isPublished is required"))
		return
	}

	p, err := h.portfolios.SetPublished(r.Context(), id, chi.URLParam(r, "id"), *in.IsPublished)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, portfolioResponse{Portfolio: p.View()})
}

func (h *Handler) deleteOwned(w http.ResponseWriter, r *http.Request) {
	id, _ := identity(r)

	if err := h.portfolios.DeleteOwned(r.Context(), id, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Portfolio deleted successfully")
}
