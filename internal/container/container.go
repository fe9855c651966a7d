package container

import (
	"context"
	"log"
	"os"

	"github.com/ttahub/goals-lambda/internal/auth"
	"github.com/ttahub/goals-lambda/internal/config"
	"github.com/ttahub/goals-lambda/internal/goal"
	"github.com/ttahub/goals-lambda/internal/grant"
	"github.com/ttahub/goals-lambda/internal/merge"
	"github.com/ttahub/goals-lambda/internal/objective"
	"github.com/ttahub/goals-lambda/internal/recipient"
	"github.com/ttahub/goals-lambda/internal/report"
	"github.com/ttahub/goals-lambda/internal/similarity"
	"github.com/ttahub/goals-lambda/internal/user"
)

type Container struct {
	UserContainer       *user.UserContainer
	GoalContainer       *goal.Container
	SimilarityContainer *similarity.Container
	MergeContainer      *merge.Container
	ReportContainer     *report.Container
	GrantResolver       grant.Resolver
}

func New() *Container {
	config.Init()
	auth.Init()
	config.InitCrypto()

	dsn := os.Getenv("DATABASE_DSN")
	if err := config.Connect(context.Background(), dsn); err != nil {
		log.Fatalf("failed to connect to DB: %v", err)
	}

	userContainer := user.NewUserContainer(config.DB)

	grantRepo := grant.NewRepository(config.DB)
	resolver := grant.NewResolver(grantRepo)

	objectiveRepo := objective.NewRepository(config.DB)
	recipientRepo := recipient.NewRepository(config.DB)
	goalContainer := goal.NewContainer(config.DB, objectiveRepo, recipientRepo)
	reportContainer := report.NewContainer(config.DB, goalContainer.Repo, objectiveRepo)
	similarityContainer := similarity.NewContainer(config.DB, goalContainer.Repo, reportContainer.Repo)
	mergeContainer := merge.NewContainer(config.DB, resolver)

	return &Container{
		UserContainer:       userContainer,
		GoalContainer:       goalContainer,
		SimilarityContainer: similarityContainer,
		MergeContainer:      mergeContainer,
		ReportContainer:     reportContainer,
		GrantResolver:       resolver,
	}
}
