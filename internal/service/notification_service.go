package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/events"
)

// NotificationService reacts to ticket events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     loggerOrNop(logger),
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handle("TicketCreated"))
	n.dispatcher.Subscribe(events.EventTicketAssigned, n.handle("TicketAssigned"))
	n.dispatcher.Subscribe(events.EventTicketUnassigned, n.handle("TicketUnassigned"))
	n.dispatcher.Subscribe(events.EventTicketStatusChanged, n.handle("TicketStatusChanged"))
	n.dispatcher.Subscribe(events.EventTicketCommentAdded, n.handle("TicketCommentAdded"))
}

func (n *NotificationService) handle(name string) events.EventHandler {
	return func(_ context.Context, event events.Event) error {
		fields := []zap.Field{
			zap.String("event_id", event.ID),
			zap.Int64("ticket_id", event.TicketID),
			zap.Any("payload", event.Payload),
		}
		if event.ActorID != nil {
			fields = append(fields, zap.Int64("actor_id", *event.ActorID))
		}
		n.logger.Info(name, fields...)
		return nil
	}
}
