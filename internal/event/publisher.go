package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lshigami/Linnet/internal/cefr"
	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

const (
	exchangeName       = "exam.events"
	routingKeyComplete = "exam.completed"
)

// ExamCompleted is the domain event emitted once per completed exam.
// Collaborators (email, webhook, billing notification) consume it; the
// engine never sends those itself.
type ExamCompleted struct {
	CandidateID    uint       `json:"candidate_id"`
	CompanyID      uint       `json:"company_id"`
	Score          float64    `json:"score"`
	CEFRLevel      cefr.Level `json:"cefr_level"`
	IELTSBand      float64    `json:"ielts_band"`
	CertificateRef string     `json:"certificate_ref"`
	CompletedAt    time.Time  `json:"completed_at"`
}

type Publisher interface {
	PublishExamCompleted(ctx context.Context, event *ExamCompleted) error
	Close() error
}

// RabbitPublisher publishes events to a topic exchange. When no broker
// URI is configured it degrades to a disabled no-op so the engine can
// run without messaging infrastructure.
type RabbitPublisher struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
	enabled bool
}

func NewRabbitPublisher(rabbitURI string) (*RabbitPublisher, error) {
	if rabbitURI == "" {
		log.Warn().Msg("RabbitMQ URI is empty, event publishing is disabled")
		return &RabbitPublisher{enabled: false}, nil
	}

	conn, err := amqp091.Dial(rabbitURI)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchangeName,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &RabbitPublisher{conn: conn, channel: channel, enabled: true}, nil
}

func (p *RabbitPublisher) PublishExamCompleted(ctx context.Context, event *ExamCompleted) error {
	if !p.enabled {
		log.Debug().Uint("candidateID", event.CandidateID).Msg("Event publishing disabled, skipping ExamCompleted")
		return nil
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal ExamCompleted event: %w", err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = p.channel.PublishWithContext(
		pubCtx,
		exchangeName,
		routingKeyComplete,
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish ExamCompleted event: %w", err)
	}

	log.Info().Uint("candidateID", event.CandidateID).Str("routingKey", routingKeyComplete).
		Msg("Published ExamCompleted event")
	return nil
}

func (p *RabbitPublisher) Close() error {
	if !p.enabled {
		return nil
	}
	if err := p.channel.Close(); err != nil {
		return err
	}
	return p.conn.Close()
}
