package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/drkae456/highScalableAWSArchitecture/internal/aws"
)

// metricName counts lifecycle events by detail type and status.
const metricName = "OrderLifecycleEvents"

// Processor turns order lifecycle events into CloudWatch metric data.
type Processor struct {
	cloudwatch aws.CloudWatchAPI
	namespace  string
}

// NewProcessor creates a worker processor with AWS clients injected.
func NewProcessor(clients *aws.AWSClients, namespace string) *Processor {
	return &Processor{
		cloudwatch: clients.CloudWatch,
		namespace:  namespace,
	}
}

// Handle receives an SQS batch event and processes each message.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) error {
	for _, rec := range ev.Records {
		if err := p.processBody(ctx, rec.Body); err != nil {
			// Return error: Lambda will retry. If failed too many times, message goes to DLQ.
			log.Printf("worker error: %v", err)
			return err
		}
	}
	return nil
}

func (p *Processor) processBody(ctx context.Context, body string) error {
	var env EventEnvelope
	if err := json.Unmarshal([]byte(body), &env); err != nil {
		return fmt.Errorf("invalid event body: %w", err)
	}
	if env.DetailType == "" || env.Detail.OrderID == "" {
		return fmt.Errorf("event missing detail-type or order_id: %s", body)
	}

	log.Printf("[worker] received order=%s status=%s type=%q",
		env.Detail.OrderID, env.Detail.Status, env.DetailType)

	input := &cloudwatch.PutMetricDataInput{
		Namespace: &p.namespace,
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: awsString(metricName),
				Value:      awsFloat64(1),
				Unit:       cwtypes.StandardUnitCount,
				Dimensions: []cwtypes.Dimension{
					{Name: awsString("DetailType"), Value: awsString(env.DetailType)},
					{Name: awsString("Status"), Value: awsString(env.Detail.Status)},
				},
			},
		},
	}
	if _, err := p.cloudwatch.PutMetricData(ctx, input); err != nil {
		return fmt.Errorf("put metric data: %w", err)
	}
	return nil
}

// PollOnce drains up to one ReceiveMessage batch from the queue, processing
// and deleting each message. Used by the local run mode instead of the
// Lambda event source. Returns the number of messages handled.
func (p *Processor) PollOnce(ctx context.Context, client aws.SQSAPI, queueURL string) (int, error) {
	out, err := client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            &queueURL,
		MaxNumberOfMessages: 10,
		WaitTimeSeconds:     20,
	})
	if err != nil {
		return 0, fmt.Errorf("receive message: %w", err)
	}

	handled := 0
	for _, msg := range out.Messages {
		if msg.Body == nil {
			continue
		}
		if err := p.processBody(ctx, *msg.Body); err != nil {
			// local mode: log and skip, the message becomes visible again
			log.Printf("worker error: %v", err)
			continue
		}
		if _, err := client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
			QueueUrl:      &queueURL,
			ReceiptHandle: msg.ReceiptHandle,
		}); err != nil {
			return handled, fmt.Errorf("delete message: %w", err)
		}
		handled++
	}
	return handled, nil
}

func awsString(s string) *string    { return &s }
func awsFloat64(f float64) *float64 { return &f }
