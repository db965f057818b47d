package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"sivik-storefront/stats-svc/internal/domain"
)

const fetchBackoff = time.Second

type Consumer struct {
	Reader MessageReader
	Store  StoreInterface
	Logger *slog.Logger
}

func NewConsumer(reader MessageReader, store StoreInterface, logger *slog.Logger) *Consumer {
	return &Consumer{
		Reader: reader,
		Store:  store,
		Logger: logger,
	}
}

// Start reads the orders topic until ctx is cancelled. A message is committed
// once it has been handled, even when handling failed, so one bad event does
// not stall the partition.
func (c *Consumer) Start(ctx context.Context) error {
	logger := c.logger()
	logger.Info("starting stats consumer")
	for {
		msg, err := c.Reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logger.Error("fetch message", "error", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(fetchBackoff):
			}
			continue
		}

		if err := c.HandleMessage(ctx, msg.Value); err != nil {
			logger.Error("handle message",
				"partition", msg.Partition,
				"offset", msg.Offset,
				"error", err)
		}

		if err := c.Reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logger.Error("commit message", "offset", msg.Offset, "error", err)
		}
	}
}

func (c *Consumer) HandleMessage(ctx context.Context, value []byte) error {
	var event domain.OrderEvent
	if err := json.Unmarshal(value, &event); err != nil {
		return fmt.Errorf("decode order event: %w", err)
	}
	return c.ProcessEvent(ctx, event)
}

func (c *Consumer) ProcessEvent(ctx context.Context, event domain.OrderEvent) error {
	date := c.dateOf(event)

	switch event.Type {
	case domain.EventOrderCreated:
		if err := c.Store.RecordOrder(ctx, date, event.Total, event.Items); err != nil {
			return err
		}
	case domain.EventOrderStatusChanged:
		if event.Status == "" {
			return errors.New("status change without status")
		}
		if err := c.Store.RecordStatus(ctx, date, event.Status); err != nil {
			return err
		}
	default:
		c.logger().Debug("ignoring event", "type", event.Type, "order_id", event.OrderID)
		return nil
	}

	c.logger().Info("processed order event",
		"type", event.Type,
		"order_id", event.OrderID,
		"date", date)
	return nil
}

// dateOf buckets an event by its own timestamp so a replayed backlog lands on
// the day it happened.
func (c *Consumer) dateOf(event domain.OrderEvent) string {
	ts := event.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	return ts.Local().Format(domain.DateLayout)
}

func (c *Consumer) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
