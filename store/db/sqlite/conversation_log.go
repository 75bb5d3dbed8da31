package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/hrygo/chatdesk/store"
)

func (d *DB) CreateConversationLog(ctx context.Context, create *store.ConversationLog) (*store.ConversationLog, error) {
	fields := []string{"uid", "user_id", "conversation_id", "user_message", "bot_reply", "intent", "confidence", "entities", "created_ts"}
	args := []any{create.UID, create.UserID, create.ConversationID, create.UserMessage, create.BotReply, create.Intent, create.Confidence, create.Entities, create.CreatedTs}

	stmt := `INSERT INTO conversation_log (` + strings.Join(fields, ", ") + `)
		VALUES (` + strings.TrimSuffix(strings.Repeat("?, ", len(args)), ", ") + `)
		RETURNING id`
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(&create.ID); err != nil {
		return nil, fmt.Errorf("failed to create conversation_log: %w", err)
	}

	return create, nil
}

func (d *DB) ListConversationLogs(ctx context.Context, find *store.FindConversationLog) ([]*store.ConversationLog, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.ConversationID != nil {
		where, args = append(where, "conversation_id = ?"), append(args, *find.ConversationID)
	}
	if find.UserID != nil {
		where, args = append(where, "user_id = ?"), append(args, *find.UserID)
	}

	query := `
		SELECT id, uid, user_id, conversation_id, user_message, bot_reply, intent, confidence, entities, created_ts
		FROM conversation_log
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY id DESC`
	if find.Limit != nil {
		query += fmt.Sprintf(" LIMIT %d", *find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversation_logs: %w", err)
	}
	defer rows.Close()

	list := make([]*store.ConversationLog, 0)
	for rows.Next() {
		l := &store.ConversationLog{}
		if err := rows.Scan(&l.ID, &l.UID, &l.UserID, &l.ConversationID, &l.UserMessage, &l.BotReply, &l.Intent, &l.Confidence, &l.Entities, &l.CreatedTs); err != nil {
			return nil, fmt.Errorf("failed to scan conversation_log: %w", err)
		}
		list = append(list, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate conversation_logs: %w", err)
	}

	return list, nil
}
