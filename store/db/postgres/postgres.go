package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	// Import the Postgres driver.
	_ "github.com/lib/pq"

	"github.com/hrygo/chatdesk/internal/profile"
	"github.com/hrygo/chatdesk/store"
)

type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

// NewDB opens a Postgres database using the DSN from the profile.
func NewDB(profile *profile.Profile) (store.Driver, error) {
	if profile.DSN == "" {
		return nil, errors.New("dsn required")
	}

	postgresDB, err := sql.Open("postgres", profile.DSN)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open db with dsn: %s", profile.DSN)
	}

	driver := DB{db: postgresDB, profile: profile}

	return &driver, nil
}

func (d *DB) GetDB() *sql.DB {
	return d.db
}

func (d *DB) Close() error {
	return d.db.Close()
}

// Migrate creates the conversation_log and ticket tables if they do not exist.
func (d *DB) Migrate(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS conversation_log (
		id BIGSERIAL PRIMARY KEY,
		uid TEXT NOT NULL DEFAULT '',
		user_id TEXT NOT NULL,
		conversation_id TEXT NOT NULL,
		user_message TEXT NOT NULL,
		bot_reply TEXT NOT NULL,
		intent TEXT NOT NULL DEFAULT '',
		confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
		entities TEXT NOT NULL DEFAULT '{}',
		created_ts BIGINT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_conversation_log_conversation_id ON conversation_log (conversation_id);

	CREATE TABLE IF NOT EXISTS ticket (
		id BIGSERIAL PRIMARY KEY,
		user_id TEXT NOT NULL,
		conversation_id TEXT NOT NULL DEFAULT '',
		subject TEXT NOT NULL,
		details TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'open',
		created_ts BIGINT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_ticket_conversation_id ON ticket (conversation_id);
	`
	if _, err := d.db.ExecContext(ctx, schema); err != nil {
		return errors.Wrap(err, "failed to migrate postgres schema")
	}
	return nil
}

// placeholder returns the positional parameter for the given 1-based index.
func placeholder(n int) string {
	return fmt.Sprintf("$%d", n)
}

// placeholders returns a comma-joined list of positional parameters $1..$n.
func placeholders(n int) string {
	list := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		list = append(list, placeholder(i))
	}
	return strings.Join(list, ", ")
}
