package goal

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/ttahub/goals-lambda/internal/auth"
	"github.com/ttahub/goals-lambda/internal/config"
	"github.com/ttahub/goals-lambda/internal/recipient"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) ApplyStatusTransition(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	actingUserID, err := uuid.Parse(claims.UserID)
	if err != nil {
		log.WithError(err).Warn("Token carries a malformed user id")
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var dto StatusTransitionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Error("Invalid request body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if len(dto.GoalIDs) == 0 || dto.NewStatus == "" {
		http.Error(w, "goal_ids and new_status are required", http.StatusBadRequest)
		return
	}

	result, err := h.service.ApplyStatusTransition(r.Context(), actingUserID, dto)
	if err != nil {
		switch {
		case errors.Is(err, ErrGoalNotFound):
			http.Error(w, "goal not found", http.StatusNotFound)
		case errors.Is(err, ErrGoalMergedAway):
			http.Error(w, "goal has been merged away", http.StatusConflict)
		default:
			log.WithError(err).Error("Failed to apply status transition")
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	config.JSON(w, http.StatusOK, result)
}

func (h *Handler) RecipientGoals(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	recipientID, err := uuid.Parse(chi.URLParam(r, "recipientId"))
	if err != nil {
		http.Error(w, "invalid recipient id", http.StatusBadRequest)
		return
	}

	entries, err := h.service.RecipientGoals(r.Context(), recipientID)
	if err != nil {
		if errors.Is(err, recipient.ErrRecipientNotFound) {
			http.Error(w, "recipient not found", http.StatusNotFound)
			return
		}
		log.WithError(err).Error("Failed to build recipient goal view")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusOK, entries)
}
