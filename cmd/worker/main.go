package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/drkae456/highScalableAWSArchitecture/internal/aws"
)

// receiveRetryDelay spaces out retries after a failed ReceiveMessage call.
var receiveRetryDelay = 5 * time.Second

// pollLoop polls the queue until ctx is cancelled. Receive failures are
// logged and retried; a transient SQS error must not kill the poller.
func pollLoop(ctx context.Context, p *Processor, client aws.SQSAPI, queueURL string) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		n, err := p.PollOnce(ctx, client, queueURL)
		if err != nil {
			log.Printf("poll error: %v", err)
			time.Sleep(receiveRetryDelay)
			continue
		}
		if n > 0 {
			log.Printf("handled %d messages", n)
		}
	}
}

func main() {
	clients, err := aws.NewAWSClients(context.Background())
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}

	namespace := os.Getenv("METRICS_NAMESPACE")
	if namespace == "" {
		namespace = "OrderAPI"
	}

	p := NewProcessor(clients, namespace)

	// If RUN_LOCAL=true, poll the lifecycle queue directly instead of running
	// behind the Lambda event source.
	if os.Getenv("RUN_LOCAL") == "true" {
		queueURL := os.Getenv("EVENTS_QUEUE_URL")
		if queueURL == "" {
			log.Fatal("EVENTS_QUEUE_URL is required when RUN_LOCAL=true")
		}
		log.Printf("polling %s", queueURL)
		pollLoop(context.Background(), p, clients.SQS, queueURL)
		return
	}

	lambda.Start(p.Handle)
}
