package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/hrygo/chatdesk/store"
)

func (d *DB) CreateTicket(ctx context.Context, create *store.Ticket) (*store.Ticket, error) {
	if create.Status == "" {
		create.Status = store.TicketStatusOpen
	}

	fields := []string{"user_id", "conversation_id", "subject", "details", "status", "created_ts"}
	args := []any{create.UserID, create.ConversationID, create.Subject, create.Details, create.Status, create.CreatedTs}

	stmt := `INSERT INTO ticket (` + strings.Join(fields, ", ") + `)
		VALUES (` + strings.TrimSuffix(strings.Repeat("?, ", len(args)), ", ") + `)
		RETURNING id`
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(&create.ID); err != nil {
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}

	return create, nil
}

func (d *DB) GetTicket(ctx context.Context, id int64) (*store.Ticket, error) {
	tickets, err := d.ListTickets(ctx, &store.FindTicket{ID: &id})
	if err != nil {
		return nil, err
	}
	if len(tickets) == 0 {
		return nil, sql.ErrNoRows
	}
	return tickets[0], nil
}

func (d *DB) ListTickets(ctx context.Context, find *store.FindTicket) ([]*store.Ticket, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.ID != nil {
		where, args = append(where, "id = ?"), append(args, *find.ID)
	}
	if find.ConversationID != nil {
		where, args = append(where, "conversation_id = ?"), append(args, *find.ConversationID)
	}
	if find.UserID != nil {
		where, args = append(where, "user_id = ?"), append(args, *find.UserID)
	}
	if find.Status != nil {
		where, args = append(where, "status = ?"), append(args, *find.Status)
	}

	query := `
		SELECT id, user_id, conversation_id, subject, details, status, created_ts
		FROM ticket
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY id DESC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Ticket, 0)
	for rows.Next() {
		t := &store.Ticket{}
		if err := rows.Scan(&t.ID, &t.UserID, &t.ConversationID, &t.Subject, &t.Details, &t.Status, &t.CreatedTs); err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		list = append(list, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tickets: %w", err)
	}

	return list, nil
}

func (d *DB) UpdateTicket(ctx context.Context, update *store.UpdateTicket) (*store.Ticket, error) {
	set, args := []string{}, []any{}

	if update.Status != nil {
		set, args = append(set, "status = ?"), append(args, *update.Status)
	}

	if len(set) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}

	args = append(args, update.ID)
	stmt := `UPDATE ticket SET ` + strings.Join(set, ", ") + ` WHERE id = ?`
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return nil, fmt.Errorf("failed to update ticket: %w", err)
	}

	return d.GetTicket(ctx, update.ID)
}
