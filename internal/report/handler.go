package report

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/ttahub/goals-lambda/internal/config"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) ReportGoals(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	reportID, err := uuid.Parse(chi.URLParam(r, "reportId"))
	if err != nil {
		http.Error(w, "invalid report id", http.StatusBadRequest)
		return
	}

	entries, err := h.service.ReportGoals(r.Context(), reportID)
	if err != nil {
		if errors.Is(err, ErrReportNotFound) {
			http.Error(w, "activity report not found", http.StatusNotFound)
			return
		}
		log.WithError(err).Error("Failed to build report goal view")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusOK, entries)
}
