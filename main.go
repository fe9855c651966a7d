package main

import (
	"context"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"github.com/sirupsen/logrus"

	"github.com/ttahub/goals-lambda/internal/container"
	"github.com/ttahub/goals-lambda/internal/router"
)

var adapter *httpadapter.HandlerAdapter

func handler(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return adapter.ProxyWithContext(ctx, req)
}

func main() {
	c := container.New()
	mux := router.New(router.RouterConfig{
		UserHandler:       c.UserContainer.Handler,
		GoalHandler:       c.GoalContainer.Handler,
		SimilarityHandler: c.SimilarityContainer.Handler,
		MergeHandler:      c.MergeContainer.Handler,
		ReportHandler:     c.ReportContainer.Handler,
	})

	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		adapter = httpadapter.New(mux)
		lambda.Start(handler)
		return
	}

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	logrus.WithField("addr", addr).Info("Starting HTTP server")
	if err := http.ListenAndServe(addr, mux); err != nil {
		logrus.WithError(err).Fatal("Server stopped")
	}
}
