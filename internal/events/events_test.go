package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Veraticus/spendwise/internal/model"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type publishedMessage struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakeChannel struct {
	err       error
	published []publishedMessage
	closed    bool
}

func (c *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if c.err != nil {
		return c.err
	}
	c.published = append(c.published, publishedMessage{exchange: exchange, key: key, msg: msg})
	return nil
}

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

func newTestPublisher(ch *fakeChannel) *AMQPPublisher {
	return &AMQPPublisher{
		channel:  ch,
		exchange: "spendwise",
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestAMQPPublisher_PublishExpenseCreated(t *testing.T) {
	ch := &fakeChannel{}
	p := newTestPublisher(ch)

	e := model.Expense{
		ID:          42,
		Description: "Train ticket",
		Amount:      decimal.RequireFromString("7.80"),
		Category:    model.CategoryTransportation,
		Date:        time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, p.PublishExpenseCreated(context.Background(), e))

	require.Len(t, ch.published, 1)
	got := ch.published[0]
	assert.Equal(t, "spendwise", got.exchange)
	assert.Equal(t, RoutingExpenseCreated, got.key)
	assert.Equal(t, "application/json", got.msg.ContentType)
	assert.Equal(t, amqp.Persistent, got.msg.DeliveryMode)

	decoded, err := ExpenseMessageFromJSON(got.msg.Body)
	require.NoError(t, err)
	assert.Equal(t, int64(42), decoded.ID)
	assert.Equal(t, RoutingExpenseCreated, decoded.Event)
	assert.Equal(t, model.CategoryTransportation, decoded.Category)
	require.NotNil(t, decoded.Amount)
	assert.True(t, decoded.Amount.Equal(e.Amount))
}

func TestAMQPPublisher_PublishExpenseDeleted(t *testing.T) {
	ch := &fakeChannel{}
	p := newTestPublisher(ch)

	require.NoError(t, p.PublishExpenseDeleted(context.Background(), 9))

	require.Len(t, ch.published, 1)
	assert.Equal(t, RoutingExpenseDeleted, ch.published[0].key)
	assert.JSONEq(t, `{"event":"expense.deleted","id":9,"timestamp":"`+
		ch.published[0].msg.Timestamp.Format(time.RFC3339Nano)+`"}`, string(ch.published[0].msg.Body))
}

func TestAMQPPublisher_PublishError(t *testing.T) {
	ch := &fakeChannel{err: errors.New("channel closed")}
	p := newTestPublisher(ch)

	err := p.PublishExpenseDeleted(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish expense.deleted")

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

func TestNopPublisher(t *testing.T) {
	var p NopPublisher
	assert.NoError(t, p.PublishExpenseCreated(context.Background(), model.Expense{}))
	assert.NoError(t, p.PublishExpenseDeleted(context.Background(), 1))
	assert.NoError(t, p.Close())
}

func TestExpenseMessageFromJSON_Invalid(t *testing.T) {
	_, err := ExpenseMessageFromJSON([]byte("{"))
	assert.Error(t, err)
}
