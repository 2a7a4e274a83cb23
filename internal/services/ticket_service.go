package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"

	"matchday/internal/status"
	"matchday/models"
)

// TicketService is the seat ledger. Ownership changes go through
// conditional single-statement updates so that, under concurrent
// requests, the database row is the enforcement point for the
// at-most-one-owner invariant.
type TicketService struct {
	app core.App
}

func NewTicketService(app core.App) *TicketService {
	return &TicketService{app: app}
}

// GenerateSeats labels seats offset+1 .. offset+count, in order.
func GenerateSeats(count, offset int) []string {
	seats := make([]string, 0, count)
	for i := 1; i <= count; i++ {
		seats = append(seats, strconv.Itoa(offset+i))
	}
	return seats
}

// CreateBatch inserts one ticket per seat under the category. Runs in
// the caller's transaction when app is a transactional instance.
func (s *TicketService) CreateBatch(ctx context.Context, app core.App, categoryID string, seats []string) ([]models.Ticket, error) {
	collection, err := app.FindCollectionByNameOrId("tickets")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", status.ErrStorageUnavailable, err)
	}

	tickets := make([]models.Ticket, 0, len(seats))
	for _, seat := range seats {
		record := core.NewRecord(collection)
		record.Set("category", categoryID)
		record.Set("seat", seat)
		if err := app.Save(record); err != nil {
			return nil, fmt.Errorf("create ticket %s: %w", seat, err)
		}
		tickets = append(tickets, models.Ticket{
			ID:         record.Id,
			CategoryID: categoryID,
			Seat:       seat,
		})
	}
	return tickets, nil
}

func (s *TicketService) Get(ctx context.Context, ticketID string) (*models.Ticket, error) {
	record, err := s.app.FindRecordById("tickets", ticketID)
	if err != nil {
		return nil, status.ErrTicketNotFound
	}
	return ticketFromRecord(record), nil
}

// Assign gives the ticket to the account. The pre-read classifies the
// failure; the conditional write is what actually guarantees a single
// owner when two buyers race past the read.
func (s *TicketService) Assign(ctx context.Context, ticketID, accountID string) error {
	ticket, err := s.Get(ctx, ticketID)
	if err != nil {
		return err
	}
	if ticket.Owned() {
		return status.ErrAlreadyOwned
	}

	result, err := s.app.DB().NewQuery(
		"UPDATE tickets SET owner = {:owner} WHERE id = {:id} AND (owner = '' OR owner IS NULL)",
	).Bind(dbx.Params{"owner": accountID, "id": ticketID}).WithContext(ctx).Execute()
	if err != nil {
		return fmt.Errorf("%w: %v", status.ErrStorageUnavailable, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		// Lost the race to another buyer.
		return status.ErrAlreadyOwned
	}
	return nil
}

// Release clears ownership, but only for the account that holds it.
func (s *TicketService) Release(ctx context.Context, ticketID, accountID string) error {
	ticket, err := s.Get(ctx, ticketID)
	if err != nil {
		return err
	}
	if !ticket.Owned() {
		return status.ErrNotOwned
	}
	if ticket.Owner != accountID {
		return status.ErrOwnerMismatch
	}

	result, err := s.app.DB().NewQuery(
		"UPDATE tickets SET owner = '' WHERE id = {:id} AND owner = {:owner}",
	).Bind(dbx.Params{"id": ticketID, "owner": accountID}).WithContext(ctx).Execute()
	if err != nil {
		return fmt.Errorf("%w: %v", status.ErrStorageUnavailable, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return status.ErrOwnerMismatch
	}
	return nil
}

// ByOwner returns the tickets an account currently holds.
func (s *TicketService) ByOwner(ctx context.Context, accountID string) ([]models.Ticket, error) {
	records, err := s.app.FindRecordsByFilter(
		"tickets",
		"owner = {:owner}",
		"seat",
		-1,
		0,
		dbx.Params{"owner": accountID},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", status.ErrStorageUnavailable, err)
	}
	return ticketsFromRecords(records), nil
}

// ByCategory returns all seats of a category, sold or not.
func (s *TicketService) ByCategory(ctx context.Context, categoryID string) ([]models.Ticket, error) {
	records, err := s.app.FindRecordsByFilter(
		"tickets",
		"category = {:category}",
		"seat",
		-1,
		0,
		dbx.Params{"category": categoryID},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", status.ErrStorageUnavailable, err)
	}
	return ticketsFromRecords(records), nil
}

func ticketFromRecord(record *core.Record) *models.Ticket {
	return &models.Ticket{
		ID:         record.Id,
		CategoryID: record.GetString("category"),
		Seat:       record.GetString("seat"),
		Owner:      record.GetString("owner"),
	}
}

func ticketsFromRecords(records []*core.Record) []models.Ticket {
	tickets := make([]models.Ticket, 0, len(records))
	for _, record := range records {
		tickets = append(tickets, *ticketFromRecord(record))
	}
	return tickets
}
