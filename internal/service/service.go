package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/policy"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// Transactor runs fn inside one transaction; a non-nil error rolls back.
type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

func loggerOrNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// lockTicket loads the ticket row for update; a missing ticket is NotFound.
func lockTicket(ctx context.Context, tickets repository.TicketRepository, id int64) (*domain.Ticket, error) {
	ticket, err := tickets.GetByIDForUpdate(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if ticket == nil {
		return nil, policy.ErrTicketNotFound()
	}
	return ticket, nil
}

func appendHistory(ctx context.Context, history repository.TicketHistoryRepository, ticketID int64, actor *domain.Account, description string) (*domain.TicketHistory, error) {
	entry := &domain.TicketHistory{TicketID: ticketID, Description: description}
	if actor != nil {
		id, name := actor.ID, actor.Name
		entry.ActorID = &id
		entry.ActorName = &name
	}
	if err := history.Create(ctx, entry); err != nil {
		return nil, apperrors.MapError(err)
	}
	return entry, nil
}

// publishEvent runs after commit; handler failures never change the request outcome.
func publishEvent(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, event events.Event) {
	if dispatcher == nil {
		return
	}
	if err := dispatcher.Publish(ctx, event); err != nil {
		logger.Warn("event handler failed",
			zap.String("event_type", string(event.Type)),
			zap.Int64("ticket_id", event.TicketID),
			zap.Error(err))
	}
}

func actorID(actor *domain.Account) *int64 {
	id := actor.ID
	return &id
}
