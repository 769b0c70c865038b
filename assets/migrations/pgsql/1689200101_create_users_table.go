package pgsql

import (
	"context"
	"fmt"
)

// CreateUsersTable1689200101 is struct to define a migration with ID 1689200101_create_users_table
type CreateUsersTable1689200101 struct{}

// ID return unique identifier for each migration. The prefix is unix time when this migration is created.
func (m CreateUsersTable1689200101) ID(ctx context.Context) string {
	return fmt.Sprintf("%d_%s.sql", 1689200101, "create_users_table")
}

// SequenceNumber return current time when the migration is created,
// this useful to see the current status of the migration.
func (m CreateUsersTable1689200101) SequenceNumber(ctx context.Context) int {
	return 1689200101
}

// Up return sql migration for sync database
func (m CreateUsersTable1689200101) Up(ctx context.Context) (sql string, err error) {
	sql = `
CREATE TABLE IF NOT EXISTS users (
    id         BIGINT PRIMARY KEY,
    email      VARCHAR(255) NOT NULL,
    full_name  VARCHAR(255) NOT NULL DEFAULT '',
    created_at BIGINT NOT NULL,
    updated_at BIGINT NOT NULL,
    deleted_at BIGINT NOT NULL DEFAULT 0
);

CREATE UNIQUE INDEX IF NOT EXISTS users_email_live_uidx
    ON users (LOWER(email)) WHERE deleted_at = 0;
`
	return
}

// Down return sql migration for rollback database
func (m CreateUsersTable1689200101) Down(ctx context.Context) (sql string, err error) {
	sql = `DROP TABLE IF EXISTS users;`
	return
}
