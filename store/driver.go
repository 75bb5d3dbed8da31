package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	Migrate(ctx context.Context) error

	// ConversationLog model related methods.
	CreateConversationLog(ctx context.Context, create *ConversationLog) (*ConversationLog, error)
	ListConversationLogs(ctx context.Context, find *FindConversationLog) ([]*ConversationLog, error)

	// Ticket model related methods.
	CreateTicket(ctx context.Context, create *Ticket) (*Ticket, error)
	GetTicket(ctx context.Context, id int64) (*Ticket, error)
	ListTickets(ctx context.Context, find *FindTicket) ([]*Ticket, error)
	UpdateTicket(ctx context.Context, update *UpdateTicket) (*Ticket, error)
}
