// Package poller empties carts once checkout completes. It consumes the
// checkout outbox topic published by the checkout service.
package poller

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/hoanghieund/sale-project-sub002/internal/domain"
	"github.com/hoanghieund/sale-project-sub002/internal/repository"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	Topic   = "checkout-outbox"
	GroupID = "storefront-cart-consumer"
)

// CheckoutCompleted is the outbox event the poller reacts to.
type CheckoutCompleted struct {
	CheckoutID  string          `json:"checkout_id"`
	UserID      string          `json:"user_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Currency    string          `json:"currency"`
	CompletedAt time.Time       `json:"completed_at"`
}

// CartClearer removes a user's cart and its cached copy.
type CartClearer interface {
	ClearCart(ctx context.Context, userID string) error
}

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

type Poller struct {
	carts  CartClearer
	reader messageReader
	log    *zap.Logger
}

func NewPoller(carts CartClearer, log *zap.Logger, brokers ...string) *Poller {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    Topic,
		GroupID:  GroupID,
		MaxBytes: 10e6, // 10MB
	})
	return &Poller{carts: carts, reader: reader, log: log.With(zap.String("component", "poller"))}
}

// Run consumes messages until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		m, err := p.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return
			}
			p.log.Error("error reading message", zap.Error(err))
			continue
		}
		p.handleMessage(ctx, m)
	}
}

func (p *Poller) Close() {
	if err := p.reader.Close(); err != nil {
		p.log.Error("error closing reader", zap.Error(err))
	}
}

func (p *Poller) handleMessage(ctx context.Context, m kafka.Message) {
	event, err := decodeEvent(m.Value)
	if err != nil {
		p.log.Warn("skipping malformed checkout event",
			zap.Int64("offset", m.Offset), zap.ByteString("key", m.Key), zap.Error(err))
		return
	}

	err = p.carts.ClearCart(ctx, event.UserID)
	if err != nil && !errors.Is(err, repository.ErrCartNotFound) {
		p.log.Error("failed to clear cart after checkout",
			zap.String("user_id", event.UserID), zap.String("checkout_id", event.CheckoutID), zap.Error(err))
		return
	}
	p.log.Info("cart cleared after checkout",
		zap.String("user_id", event.UserID), zap.String("checkout_id", event.CheckoutID))
}

func decodeEvent(data []byte) (*CheckoutCompleted, error) {
	var event CheckoutCompleted
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, &domain.ParseError{Source: "message", Err: err}
	}
	if event.UserID == "" {
		return nil, &domain.ParseError{Source: "message", Field: "user_id", Err: errors.New("missing")}
	}
	return &event, nil
}
