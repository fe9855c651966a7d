package goal

import (
	"github.com/ttahub/goals-lambda/internal/objective"
	"github.com/ttahub/goals-lambda/internal/recipient"
	"gorm.io/gorm"
)

type Container struct {
	Handler *Handler
	Service Service
	Repo    Repository
}

func NewContainer(db *gorm.DB, objectiveRepo objective.Repository, recipientRepo recipient.Repository) *Container {
	repo := NewRepository(db)
	service := NewService(repo, objectiveRepo, recipientRepo)
	handler := NewHandler(service)

	return &Container{
		Handler: handler,
		Service: service,
		Repo:    repo,
	}
}
