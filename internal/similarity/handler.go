package similarity

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/ttahub/goals-lambda/internal/auth"
	"github.com/ttahub/goals-lambda/internal/config"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) SimilarGoals(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	recipientID, err := uuid.Parse(chi.URLParam(r, "recipientId"))
	if err != nil {
		http.Error(w, "invalid recipient id", http.StatusBadRequest)
		return
	}

	regionID := 0
	if raw := r.URL.Query().Get("regionId"); raw != "" {
		regionID, err = strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "invalid region id", http.StatusBadRequest)
			return
		}
	}

	groups, err := h.service.ComputeGroups(r.Context(), recipientID, regionID, claims.IsAdmin())
	if err != nil {
		log.WithError(err).Error("Failed to compute similarity groups")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusOK, groups)
}

func (h *Handler) Invalidate(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	groupID, err := uuid.Parse(chi.URLParam(r, "groupId"))
	if err != nil {
		http.Error(w, "invalid group id", http.StatusBadRequest)
		return
	}

	if err := h.service.Invalidate(r.Context(), groupID); err != nil {
		if errors.Is(err, ErrGroupNotFound) {
			http.Error(w, "group not found", http.StatusNotFound)
			return
		}
		log.WithError(err).Error("Failed to invalidate similarity group")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusOK, map[string]string{"status": "invalidated"})
}
