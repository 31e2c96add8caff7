package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/visit-scheduler/internal/application"
)

var errMissingSlotParams = errors.New("date and time query parameters are required")

type catalogService interface {
	ListServices(ctx context.Context) ([]application.ServiceView, error)
	ListAddons(ctx context.Context) ([]application.AddonView, error)
	MemberOptionsForSlot(ctx context.Context, date, hhmm string) (application.MemberOptions, error)
}

type CatalogHandler struct {
	service   catalogService
	responder responder
}

func NewCatalogHandler(service catalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{service: service, responder: newResponder(logger)}
}

func (h *CatalogHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	views, err := h.service.ListServices(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, views)
}

func (h *CatalogHandler) ListAddons(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	views, err := h.service.ListAddons(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, views)
}

func (h *CatalogHandler) MemberOptions(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	query := r.URL.Query()
	date := strings.TrimSpace(query.Get("date"))
	slot := strings.TrimSpace(query.Get("time"))
	if date == "" || slot == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingSlotParams)
		return
	}

	options, err := h.service.MemberOptionsForSlot(r.Context(), date, slot)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, options)
}
