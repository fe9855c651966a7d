package similarity

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Put("/{groupId}/invalidate", h.Invalidate)

	return r
}
