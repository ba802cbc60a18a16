package sqs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"

	envConfig "github.com/Felipwz/dataops-governance-lab-TF/internal/config"
	"github.com/Felipwz/dataops-governance-lab-TF/internal/domain"
)

// Client publishes escalations to an SQS queue
type Client struct {
	client *sqs.Client
	config envConfig.SQS
	log    *zap.Logger
}

// NewClient creates a new SQS client
func NewClient(ctx context.Context, SQSConfig envConfig.SQS, log *zap.Logger) (*Client, error) {
	configOpts := []func(*config.LoadOptions) error{
		config.WithRegion(SQSConfig.Region),
	}

	var clientOpts []func(*sqs.Options)

	// Configure for local development with ElasticMQ
	if SQSConfig.Endpoint != "" {
		log.Info("Configuring SQS for local development",
			zap.String("endpoint", SQSConfig.Endpoint))
		configOpts = append(configOpts,
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("dummy", "dummy", "")))

		clientOpts = append(clientOpts, func(o *sqs.Options) {
			o.BaseEndpoint = aws.String(SQSConfig.Endpoint)
		})
	}

	cfg, err := config.LoadDefaultConfig(ctx, configOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	sqsClient := sqs.NewFromConfig(cfg, clientOpts...)

	log.Info("SQS client created",
		zap.String("region", SQSConfig.Region),
		zap.String("queue_url", SQSConfig.QueueURL))

	return &Client{
		client: sqsClient,
		config: SQSConfig,
		log:    log,
	}, nil
}

// QueueURL returns the configured queue URL
func (c *Client) QueueURL() string {
	return c.config.QueueURL
}

// PublishEscalation sends an escalation to the notification queue. Severity
// and dataset travel as message attributes so consumers can filter without
// decoding the body.
func (c *Client) PublishEscalation(ctx context.Context, runID string, escalation domain.Escalation) error {
	alert := escalation.Alert

	messageBody := map[string]interface{}{
		"run_id":       runID,
		"alert_id":     alert.ID,
		"dataset":      alert.Dataset,
		"issue":        alert.Issue,
		"severity":     alert.Severity.String(),
		"percentage":   alert.Percent,
		"recipients":   escalation.Recipients,
		"sla_hours":    escalation.SLAHours,
		"escalated_at": escalation.EscalatedAt,
	}

	bodyJSON, err := json.Marshal(messageBody)
	if err != nil {
		c.log.Error("Failed to marshal escalation",
			zap.String("alert_id", alert.ID),
			zap.Error(err))
		return fmt.Errorf("failed to marshal escalation: %w", err)
	}

	_, err = c.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(c.config.QueueURL),
		MessageBody: aws.String(string(bodyJSON)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"Severity": {
				DataType:    aws.String("String"),
				StringValue: aws.String(alert.Severity.String()),
			},
			"Dataset": {
				DataType:    aws.String("String"),
				StringValue: aws.String(alert.Dataset),
			},
		},
	})
	if err != nil {
		c.log.Error("Failed to send escalation to SQS",
			zap.String("alert_id", alert.ID),
			zap.String("severity", alert.Severity.String()),
			zap.Error(err))
		return fmt.Errorf("failed to send escalation to SQS: %w", err)
	}

	c.log.Info("Escalation published",
		zap.String("alert_id", alert.ID),
		zap.String("severity", alert.Severity.String()),
		zap.Strings("recipients", escalation.Recipients))

	return nil
}
