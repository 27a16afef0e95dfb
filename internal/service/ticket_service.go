package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/policy"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

const (
	maxTitleLength    = 200
	commentPreviewLen = 80
)

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets    repository.TicketRepository
	history    repository.TicketHistoryRepository
	tx         Transactor
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// TicketDependencies bundles repositories for ticket service.
type TicketDependencies struct {
	TicketRepo  repository.TicketRepository
	HistoryRepo repository.TicketHistoryRepository
	Tx          Transactor
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	IsPublic    bool
}

// TicketListFilter describes listing filters.
type TicketListFilter struct {
	Status *domain.TicketStatus
	Limit  int
	Offset int
}

// TicketDetail is a ticket with its history, as seen by one viewer.
type TicketDetail struct {
	Ticket      *domain.Ticket
	History     []domain.TicketHistory
	IsOwnTicket bool
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		history:    deps.HistoryRepo,
		tx:         deps.Tx,
		dispatcher: deps.Dispatcher,
		logger:     loggerOrNop(deps.Logger),
	}
}

// ListTickets returns the tickets visible to actor.
func (s *TicketService) ListTickets(ctx context.Context, actor *domain.Account, filter TicketListFilter) ([]domain.Ticket, error) {
	scope, err := policy.TicketListScope(actor)
	if err != nil {
		return nil, err
	}
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": *filter.Status})
	}

	tickets, err := s.tickets.List(ctx, repository.TicketFilter{
		OwnerOrPublic: scope.OwnerOrPublic,
		Status:        filter.Status,
		Limit:         filter.Limit,
		Offset:        filter.Offset,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return policy.FilterVisible(actor, tickets), nil
}

// GetTicket returns ticket detail with history.
func (s *TicketService) GetTicket(ctx context.Context, actor *domain.Account, ticketID int64) (*TicketDetail, error) {
	ticket, err := s.visibleTicket(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}
	history, err := s.history.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &TicketDetail{
		Ticket:      ticket,
		History:     history,
		IsOwnTicket: policy.IsOwnTicket(actor, ticket),
	}, nil
}

// ListHistory returns the audit trail of a visible ticket, oldest first.
func (s *TicketService) ListHistory(ctx context.Context, actor *domain.Account, ticketID int64) ([]domain.TicketHistory, error) {
	ticket, err := s.visibleTicket(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}
	history, err := s.history.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return history, nil
}

func (s *TicketService) visibleTicket(ctx context.Context, actor *domain.Account, ticketID int64) (*domain.Ticket, error) {
	if err := policy.RequireActive(actor); err != nil {
		return nil, err
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if ticket == nil {
		return nil, policy.ErrTicketNotFound()
	}
	if err := policy.CanViewTicket(actor, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

// CreateTicket opens a ticket owned by actor in START status.
func (s *TicketService) CreateTicket(ctx context.Context, actor *domain.Account, input TicketCreateInput) (*domain.Ticket, error) {
	if err := policy.CanCreateTicket(actor); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(input.Title)
	if title == "" || utf8.RuneCountInString(title) > maxTitleLength {
		return nil, apperrors.NewValidationError("title must be between 1 and 200 characters", map[string]any{"field": "title"})
	}

	ticket := &domain.Ticket{
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		IsPublic:    input.IsPublic,
		Status:      domain.TicketStatusStart,
		OwnerID:     actor.ID,
		OwnerName:   actor.Name,
	}
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		return apperrors.MapError(s.tickets.Create(ctx, ticket))
	})
	if err != nil {
		return nil, err
	}

	publishEvent(ctx, s.dispatcher, s.logger, events.NewEvent(events.EventTicketCreated, ticket.ID, actorID(actor),
		events.TicketCreatedPayload{OwnerID: ticket.OwnerID, Title: ticket.Title, IsPublic: ticket.IsPublic}))
	return ticket, nil
}

// ChangeStatus moves a ticket to target and records one history entry.
func (s *TicketService) ChangeStatus(ctx context.Context, actor *domain.Account, ticketID int64, target domain.TicketStatus) (*domain.Ticket, error) {
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
		if err := policy.CanChangeStatus(actor, ticket, target); err != nil {
			return err
		}

		oldStatus = ticket.Status
		ticket.Status = target
		if err := s.tickets.Update(ctx, ticket); err != nil {
			return apperrors.MapError(err)
		}
		_, err = appendHistory(ctx, s.history, ticket.ID, actor, fmt.Sprintf("Changed status to %q", target.Label()))
		return err
	})
	if err != nil {
		return nil, err
	}

	publishEvent(ctx, s.dispatcher, s.logger, events.NewEvent(events.EventTicketStatusChanged, ticket.ID, actorID(actor),
		events.TicketStatusChangedPayload{OldStatus: oldStatus, NewStatus: target}))
	return ticket, nil
}

// AddComment appends a note authored by actor. Status and assignee are untouched.
func (s *TicketService) AddComment(ctx context.Context, actor *domain.Account, ticketID int64, body string) (*domain.TicketHistory, error) {
	if err := policy.RequireActive(actor); err != nil {
		return nil, err
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperrors.NewValidationError("comment body is required", map[string]any{"field": "body"})
	}

	var entry *domain.TicketHistory
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		ticket, err := lockTicket(ctx, s.tickets, ticketID)
		if err != nil {
			return err
		}
		if err := policy.CanComment(actor, ticket); err != nil {
			return err
		}
		entry, err = appendHistory(ctx, s.history, ticket.ID, actor, body)
		return err
	})
	if err != nil {
		return nil, err
	}

	publishEvent(ctx, s.dispatcher, s.logger, events.NewEvent(events.EventTicketCommentAdded, ticketID, actorID(actor),
		events.TicketCommentAddedPayload{HistoryID: entry.ID, BodyPreview: preview(body)}))
	return entry, nil
}

func preview(body string) string {
	runes := []rune(body)
	if len(runes) <= commentPreviewLen {
		return body
	}
	return string(runes[:commentPreviewLen]) + "..."
}
