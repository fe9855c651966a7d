package report

import (
	"github.com/ttahub/goals-lambda/internal/goal"
	"github.com/ttahub/goals-lambda/internal/objective"
	"gorm.io/gorm"
)

type Container struct {
	Handler *Handler
	Service Service
	Cache   CacheService
	Repo    Repository
}

func NewContainer(db *gorm.DB, goalRepo goal.Repository, objectiveRepo objective.Repository) *Container {
	repo := NewRepository(db)
	service := NewService(repo, goalRepo, objectiveRepo)
	handler := NewHandler(service)

	return &Container{
		Handler: handler,
		Service: service,
		Cache:   NewCacheService(db),
		Repo:    repo,
	}
}
