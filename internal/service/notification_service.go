package service

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/shift-service/internal/config"
	"github.com/spec-kit/shift-service/internal/events"
)

// Publisher sends event payloads to an external channel. Satisfied by
// the redis wrapper.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// NotificationService broadcasts schedule events so store staff can be
// notified when their week is published or changed.
type NotificationService struct {
	dispatcher events.Dispatcher
	publisher  Publisher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, publisher Publisher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		publisher:  publisher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventAvailabilitySubmitted, n.handleEvent)
	n.dispatcher.Subscribe(events.EventScheduleAssigned, n.handleEvent)
	n.dispatcher.Subscribe(events.EventAssignmentsFinalized, n.handleEvent)
	n.dispatcher.Subscribe(events.EventScheduleClosed, n.handleEvent)
}

func (n *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	n.logger.Info("schedule event",
		zap.String("type", string(event.Type)),
		zap.String("schedule_id", event.ScheduleID),
		zap.String("store_id", event.StoreID))

	if !n.cfg.Enabled || n.publisher == nil {
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	channel := fmt.Sprintf("%s:%s", n.cfg.ChannelPrefix, event.StoreID)
	if err := n.publisher.Publish(ctx, channel, payload); err != nil {
		// notifications are best-effort; the schedule change has committed
		n.logger.Warn("publish notification failed", zap.Error(err), zap.String("channel", channel))
	}
	return nil
}
