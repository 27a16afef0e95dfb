package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/policy"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// AssignmentService handles supporters claiming and releasing tickets.
type AssignmentService struct {
	tickets    repository.TicketRepository
	history    repository.TicketHistoryRepository
	tx         Transactor
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// AssignmentDependencies bundles repositories.
type AssignmentDependencies struct {
	TicketRepo  repository.TicketRepository
	HistoryRepo repository.TicketHistoryRepository
	Tx          Transactor
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// NewAssignmentService creates the service.
func NewAssignmentService(deps AssignmentDependencies) *AssignmentService {
	return &AssignmentService{
		tickets:    deps.TicketRepo,
		history:    deps.HistoryRepo,
		tx:         deps.Tx,
		dispatcher: deps.Dispatcher,
		logger:     loggerOrNop(deps.Logger),
	}
}

// AssignSelf makes the supporter the assignee and moves START to ASSIGNED.
// The history entry is system authored and names the new assignee.
func (s *AssignmentService) AssignSelf(ctx context.Context, actor *domain.Account, ticketID int64) (*domain.Ticket, error) {
	if err := policy.RequireActive(actor); err != nil {
		return nil, err
	}

	var ticket *domain.Ticket
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		var err error
		ticket, err = lockTicket(ctx, s.tickets, ticketID)
		if err != nil {
			return err
		}
		if err := policy.CanAssignSelf(actor, ticket); err != nil {
			return err
		}

		ticket.AssigneeID = actorID(actor)
		name := actor.Name
		ticket.AssigneeName = &name
		ticket.Status = domain.TicketStatusAssigned
		if err := s.tickets.Update(ctx, ticket); err != nil {
			return apperrors.MapError(err)
		}
		_, err = appendHistory(ctx, s.history, ticket.ID, nil, fmt.Sprintf("Assigned supporter %s to the ticket", actor.Name))
		return err
	})
	if err != nil {
		return nil, err
	}

	publishEvent(ctx, s.dispatcher, s.logger, events.NewEvent(events.EventTicketAssigned, ticket.ID, nil,
		events.TicketAssignedPayload{AssigneeID: actor.ID}))
	return ticket, nil
}

// UnassignSelf releases the ticket and sends it back to START.
func (s *AssignmentService) UnassignSelf(ctx context.Context, actor *domain.Account, ticketID int64) (*domain.Ticket, error) {
	if err := policy.RequireActive(actor); err != nil {
		return nil, err
	}

	var (
		ticket    *domain.Ticket
		oldStatus domain.TicketStatus
	)
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		var err error
		ticket, err = lockTicket(ctx, s.tickets, ticketID)
		if err != nil {
			return err
		}
		if err := policy.CanUnassignSelf(actor, ticket); err != nil {
			return err
		}

		oldStatus = ticket.Status
		ticket.AssigneeID = nil
		ticket.AssigneeName = nil
		ticket.Status = domain.TicketStatusStart
		if err := s.tickets.Update(ctx, ticket); err != nil {
			return apperrors.MapError(err)
		}
		_, err = appendHistory(ctx, s.history, ticket.ID, actor, fmt.Sprintf("Supporter %s left the ticket", actor.Name))
		return err
	})
	if err != nil {
		return nil, err
	}

	publishEvent(ctx, s.dispatcher, s.logger, events.NewEvent(events.EventTicketUnassigned, ticket.ID, actorID(actor),
		events.TicketUnassignedPayload{PreviousAssigneeID: actor.ID, OldStatus: oldStatus}))
	return ticket, nil
}
