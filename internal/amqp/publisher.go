package amqp

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fintrack/internal/log"
	"fintrack/internal/models"

	"github.com/rabbitmq/amqp091-go"
)

const (
	publishTimeout = 5 * time.Second
	queueSize      = 256
)

// channel is the slice of *amqp091.Channel the publisher needs.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// Publisher sends balance updates to a topic exchange. BroadcastBalance only
// enqueues; Run drains the queue so a slow broker never holds up a request.
type Publisher struct {
	conn     *amqp091.Connection
	channel  channel
	exchange string
	logger   *log.Logger
	now      func() time.Time

	queue     chan *BalanceUpdatedMessage
	closeOnce sync.Once
	done      chan struct{}
}

func NewPublisher(url, exchange string, logger *log.Logger) (*Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
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
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	p := newPublisher(ch, exchange, logger)
	p.conn = conn
	return p, nil
}

func newPublisher(ch channel, exchange string, logger *log.Logger) *Publisher {
	if logger == nil {
		logger = log.Nop()
	}
	return &Publisher{
		channel:  ch,
		exchange: exchange,
		logger:   logger.WithComponent(log.ComponentAMQP),
		now:      time.Now,
		queue:    make(chan *BalanceUpdatedMessage, queueSize),
		done:     make(chan struct{}),
	}
}

// BroadcastBalance drops the update when the queue is full or the publisher
// has been closed.
func (p *Publisher) BroadcastBalance(userID string, update models.BalanceUpdate) {
	msg := NewBalanceUpdatedMessage(userID, update, p.now())
	select {
	case <-p.done:
		return
	default:
	}
	select {
	case p.queue <- msg:
	default:
		p.logger.Warn("balance event queue full, dropping update",
			log.FieldUserID, userID,
			log.FieldAccountID, update.AccountID)
	}
}

// Run publishes queued updates until ctx is cancelled or Close is called.
func (p *Publisher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.done:
			return
		case msg := <-p.queue:
			if err := p.Publish(ctx, msg); err != nil {
				p.logger.Error("publish balance event failed",
					log.FieldOperation, log.OpBroadcast,
					log.FieldAccountID, msg.AccountID,
					log.FieldError, err)
			}
		}
	}
}

func (p *Publisher) Publish(ctx context.Context, msg *BalanceUpdatedMessage) error {
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange,
		RoutingKeyBalanceUpdated,
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    msg.OccurredAt,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	p.logger.DebugContext(ctx, "published balance event",
		log.FieldUserID, msg.UserID,
		log.FieldAccountID, msg.AccountID)
	return nil
}

func (p *Publisher) Close() error {
	p.closeOnce.Do(func() { close(p.done) })
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
