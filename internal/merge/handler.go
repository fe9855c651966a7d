package merge

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/ttahub/goals-lambda/internal/auth"
	"github.com/ttahub/goals-lambda/internal/config"
	"github.com/ttahub/goals-lambda/internal/goal"
	"github.com/ttahub/goals-lambda/internal/grant"
	"github.com/ttahub/goals-lambda/internal/similarity"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) ExecuteMerge(w http.ResponseWriter, r *http.Request) {
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

	var req RequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.WithError(err).Error("Invalid request body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.FinalGoalID == uuid.Nil || len(req.SelectedGoalIDs) < 2 || req.SimilarityGroupID == uuid.Nil {
		http.Error(w, "final_goal_id, selected_goal_ids and similarity_group_id are required", http.StatusBadRequest)
		return
	}

	result, err := h.service.ExecuteMerge(r.Context(), actingUserID, claims.IsAdmin(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrFinalGoalNotSelected):
			http.Error(w, "final goal must be among the selected goals", http.StatusBadRequest)
		case errors.Is(err, ErrNotInGroup):
			http.Error(w, "selected goals must all belong to the similarity group", http.StatusBadRequest)
		case errors.Is(err, ErrExcludedGoal):
			http.Error(w, "selection includes a goal reserved for admin merging", http.StatusForbidden)
		case errors.Is(err, goal.ErrGoalNotFound):
			http.Error(w, "goal not found", http.StatusNotFound)
		case errors.Is(err, goal.ErrGoalMergedAway):
			http.Error(w, "goal has already been merged away", http.StatusConflict)
		case errors.Is(err, similarity.ErrGroupNotFound):
			http.Error(w, "similarity group not found", http.StatusNotFound)
		case errors.Is(err, grant.ErrNoActiveGrant):
			http.Error(w, "no active grant resolves for the selected goals", http.StatusUnprocessableEntity)
		default:
			log.WithError(err).Error("Failed to execute merge")
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	config.JSON(w, http.StatusOK, result)
}
