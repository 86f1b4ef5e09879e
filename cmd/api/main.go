package main

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"

	"github.com/drkae456/highScalableAWSArchitecture/internal/aws"
	"github.com/drkae456/highScalableAWSArchitecture/internal/handlers"
)

const version = "1.0.0"

func setupRouter(cfg handlers.HandlerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	handlers.RegisterRoutes(r, cfg)

	return r
}

func main() {
	clients, err := aws.NewAWSClients(context.Background())

	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}

	tableName := os.Getenv("TABLE_NAME")
	if tableName == "" {
		tableName = "OrdersTable"
	}
	eventBusName := os.Getenv("EVENT_BUS_NAME")
	if eventBusName == "" {
		eventBusName = "default"
	}

	cfg := handlers.HandlerConfig{
		DynamoDBClient:    clients.DynamoDB,
		EventBridgeClient: clients.EventBridge,
		S3Client:          clients.S3,
		TableName:         tableName,
		EventBusName:      eventBusName,
		S3Bucket:          os.Getenv("S3_BUCKET"),
		Version:           version,
	}

	r := setupRouter(cfg)

	// if environment variable RUN_LOCAL is set to "true", run local HTTP server for development.
	if os.Getenv("RUN_LOCAL") == "true" {
		addr := ":8080"
		log.Printf("running local server on %s", addr)
		if err := r.Run(addr); err != nil {
			log.Fatalf("failed to run local server: %v", err)
		}
		return
	}

	// lambda adapter
	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (interface{}, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}
