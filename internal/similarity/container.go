package similarity

import (
	"github.com/ttahub/goals-lambda/internal/goal"
	"github.com/ttahub/goals-lambda/internal/report"
	"gorm.io/gorm"
)

type Container struct {
	Handler *Handler
	Service Service
	Repo    Repository
}

func NewContainer(db *gorm.DB, goalRepo goal.Repository, reportRepo report.Repository) *Container {
	repo := NewRepository(db)
	service := NewService(repo, goalRepo, reportRepo, NewHTTPScorer())
	handler := NewHandler(service)

	return &Container{
		Handler: handler,
		Service: service,
		Repo:    repo,
	}
}
