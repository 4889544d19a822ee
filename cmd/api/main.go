package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	lambdaevents "github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/brbanco/go-account-opening/internal/aws"
	"github.com/brbanco/go-account-opening/internal/correlation"
	"github.com/brbanco/go-account-opening/internal/events"
	"github.com/brbanco/go-account-opening/internal/handlers"
	"github.com/brbanco/go-account-opening/internal/pipeline"
	"github.com/brbanco/go-account-opening/internal/requests"
)

func setupRouter(cfg handlers.HandlerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(correlation.Middleware())

	// health
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handlers.RegisterRequestRoutes(r, cfg)

	return r
}

func main() {
	clients, err := aws.NewAWSClients(context.Background())
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}

	broker := envOr("KAFKA_BROKER", "localhost:9092")
	redisAddr := envOr("REDIS_ADDR", "localhost:6379")
	table := envOr("REQUESTS_TABLE", "account-requests")

	store := requests.NewStore(clients.DynamoDB, table)
	publisher := events.NewPublisher(
		events.NewWriter(broker, events.TopicAccountOpened),
		events.NewWriter(broker, events.TopicRequestRejected),
	)
	registry := pipeline.NewRedisRegistry(
		redis.NewClient(&redis.Options{Addr: redisAddr}),
		24*time.Hour,
	)
	metrics := aws.NewMetricsEmitter(clients.CloudWatch)

	orchestrator := pipeline.NewOrchestrator(
		store, publisher, registry, metrics,
		pipeline.DefaultStages(pipeline.StageOptions{Delay: stageDelay()}),
	)

	r := setupRouter(handlers.HandlerConfig{
		Store:        store,
		Orchestrator: orchestrator,
	})

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

	lambda.Start(func(ctx context.Context, req lambdaevents.APIGatewayProxyRequest) (interface{}, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// stageDelay reads the per-stage simulated latency, defaulting to 2s to
// mirror the cadence of the real remote checks.
func stageDelay() time.Duration {
	if v := os.Getenv("STAGE_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("invalid STAGE_DELAY %q, using default", v)
	}
	return 2 * time.Second
}
