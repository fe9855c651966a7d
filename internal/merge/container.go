package merge

import (
	"github.com/ttahub/goals-lambda/internal/grant"
	"gorm.io/gorm"
)

type Container struct {
	Handler *Handler
	Service Service
	Store   Store
}

func NewContainer(db *gorm.DB, resolver grant.Resolver) *Container {
	store := NewStore(db)
	service := NewService(store, resolver)
	handler := NewHandler(service)

	return &Container{
		Handler: handler,
		Service: service,
		Store:   store,
	}
}
