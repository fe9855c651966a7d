package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/ttahub/goals-lambda/internal/auth"
	"github.com/ttahub/goals-lambda/internal/goal"
	"github.com/ttahub/goals-lambda/internal/merge"
	"github.com/ttahub/goals-lambda/internal/middlewares"
	"github.com/ttahub/goals-lambda/internal/report"
	"github.com/ttahub/goals-lambda/internal/similarity"
	"github.com/ttahub/goals-lambda/internal/user"
)

type RouterConfig struct {
	UserHandler       *user.Handler
	GoalHandler       *goal.Handler
	SimilarityHandler *similarity.Handler
	MergeHandler      *merge.Handler
	ReportHandler     *report.Handler
}

func New(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewares.CorsMiddleware)

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", cfg.UserHandler.GoogleLogin)
		r.Post("/logout", auth.NewHandler().Logout)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware)

		r.Mount("/users", user.Routes(cfg.UserHandler))

		r.Route("/goals", func(r chi.Router) {
			r.Put("/status", cfg.GoalHandler.ApplyStatusTransition)
			r.Mount("/similar", similarity.Routes(cfg.SimilarityHandler))
			r.Mount("/merge", merge.Routes(cfg.MergeHandler))
		})

		r.Get("/recipients/{recipientId}/goals", cfg.GoalHandler.RecipientGoals)
		r.Get("/recipients/{recipientId}/goals/similar", cfg.SimilarityHandler.SimilarGoals)
		r.Get("/activity-reports/{reportId}/goals", cfg.ReportHandler.ReportGoals)
	})
	return r
}
