package store

import (
	"context"

	"github.com/hrygo/chatdesk/internal/profile"
)

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{
		driver:  driver,
		profile: profile,
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	return s.driver.Close()
}

// Migrate creates the schema if it does not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	return s.driver.Migrate(ctx)
}

func (s *Store) CreateConversationLog(ctx context.Context, create *ConversationLog) (*ConversationLog, error) {
	return s.driver.CreateConversationLog(ctx, create)
}

func (s *Store) ListConversationLogs(ctx context.Context, find *FindConversationLog) ([]*ConversationLog, error) {
	return s.driver.ListConversationLogs(ctx, find)
}

func (s *Store) CreateTicket(ctx context.Context, create *Ticket) (*Ticket, error) {
	return s.driver.CreateTicket(ctx, create)
}

func (s *Store) GetTicket(ctx context.Context, id int64) (*Ticket, error) {
	return s.driver.GetTicket(ctx, id)
}

func (s *Store) ListTickets(ctx context.Context, find *FindTicket) ([]*Ticket, error) {
	return s.driver.ListTickets(ctx, find)
}

func (s *Store) UpdateTicket(ctx context.Context, update *UpdateTicket) (*Ticket, error) {
	return s.driver.UpdateTicket(ctx, update)
}
