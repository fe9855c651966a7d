package similarity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/ttahub/goals-lambda/internal/config"
)

// MatchSet is one goal and the goals the external scorer considers similar
// to it.
type MatchSet struct {
	GoalID  uuid.UUID
	Matches []uuid.UUID
}

// Scorer proposes candidate duplicate pairs for a recipient's goals. It is a
// fallible remote call: callers must treat failure as "nothing found", never
// as a hard error.
type Scorer interface {
	SimilarGoals(ctx context.Context, recipientID uuid.UUID) ([]MatchSet, error)
}

type httpScorer struct {
	baseURL string
	client  *http.Client
}

func NewHTTPScorer() Scorer {
	return &httpScorer{
		baseURL: os.Getenv("SIMILARITY_API_URL"),
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type scorerResponse struct {
	Result []struct {
		ID      uuid.UUID `json:"id"`
		Matches []struct {
			ID uuid.UUID `json:"id"`
		} `json:"matches"`
	} `json:"result"`
}

func (s *httpScorer) SimilarGoals(ctx context.Context, recipientID uuid.UUID) ([]MatchSet, error) {
	log := config.WithContext(ctx)

	endpoint := fmt.Sprintf("%s/similarity?recipientId=%s", s.baseURL, url.QueryEscape(recipientID.String()))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		log.WithError(err).Warn("Similarity scorer unreachable")
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("similarity scorer returned status %d", resp.StatusCode)
	}

	var body scorerResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding similarity response: %w", err)
	}

	out := make([]MatchSet, 0, len(body.Result))
	for _, r := range body.Result {
		set := MatchSet{GoalID: r.ID}
		for _, m := range r.Matches {
			set.Matches = append(set.Matches, m.ID)
		}
		out = append(out, set)
	}
	return out, nil
}
