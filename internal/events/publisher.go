package events

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Veraticus/spendwise/internal/common"
	"github.com/Veraticus/spendwise/internal/model"
	amqp "github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 5 * time.Second

// NopPublisher discards every event. It is used when no broker is configured.
type NopPublisher struct{}

// PublishExpenseCreated does nothing.
func (NopPublisher) PublishExpenseCreated(context.Context, model.Expense) error { return nil }

// PublishExpenseDeleted does nothing.
func (NopPublisher) PublishExpenseDeleted(context.Context, int64) error { return nil }

// Close does nothing.
func (NopPublisher) Close() error { return nil }

// channel is the subset of *amqp.Channel used for publishing.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher publishes expense events to a topic exchange.
type AMQPPublisher struct {
	conn     *amqp.Connection
	channel  channel
	logger   *slog.Logger
	exchange string
	mu       sync.Mutex
}

// NewAMQPPublisher dials url, retrying briefly, and declares a durable
// topic exchange.
func NewAMQPPublisher(ctx context.Context, url, exchange string, logger *slog.Logger) (*AMQPPublisher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if exchange == "" {
		exchange = "spendwise"
	}

	var conn *amqp.Connection
	err := common.WithRetry(ctx, func() error {
		var dialErr error
		conn, dialErr = amqp.Dial(url)
		return dialErr
	}, common.RetryOptions{MaxAttempts: 3, InitialDelay: time.Second})
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &AMQPPublisher{
		conn:     conn,
		channel:  ch,
		exchange: exchange,
		logger:   logger,
	}, nil
}

// PublishExpenseCreated announces a newly stored expense.
func (p *AMQPPublisher) PublishExpenseCreated(ctx context.Context, e model.Expense) error {
	return p.publish(ctx, RoutingExpenseCreated, NewCreatedMessage(e))
}

// PublishExpenseDeleted announces a deleted expense.
func (p *AMQPPublisher) PublishExpenseDeleted(ctx context.Context, id int64) error {
	return p.publish(ctx, RoutingExpenseDeleted, NewDeletedMessage(id))
}

func (p *AMQPPublisher) publish(ctx context.Context, key string, msg *ExpenseMessage) error {
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	// amqp channels are not safe for concurrent publishing.
	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange, // exchange
		key,        // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    msg.Timestamp,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", key, err)
	}

	p.logger.DebugContext(ctx, "Published expense event",
		"routing_key", key,
		"expense_id", msg.ID,
		"exchange", p.exchange)

	return nil
}

// Close closes the channel and connection.
func (p *AMQPPublisher) Close() error {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
