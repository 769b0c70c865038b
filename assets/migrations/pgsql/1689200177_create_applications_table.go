package pgsql

import (
	"context"
	"fmt"
)

// CreateApplicationsTable1689200177 is struct to define a migration with ID 1689200177_create_applications_table
type CreateApplicationsTable1689200177 struct{}

func (m CreateApplicationsTable1689200177) ID(ctx context.Context) string {
	return fmt.Sprintf("%d_%s.sql", 1689200177, "create_applications_table")
}

func (m CreateApplicationsTable1689200177) SequenceNumber(ctx context.Context) int {
	return 1689200177
}

// Up return sql migration for sync database.
// The partial unique index on LOWER(name) keeps names unique among live rows only,
// so a soft-deleted application frees its name.
// The (owner_user_id, display_order) index is deliberately non-unique: range
// shifts move several rows in one UPDATE and would trip a unique index on the
// intermediate states. Density is guarded by the ordering engine under the
// per-owner row lock.
func (m CreateApplicationsTable1689200177) Up(ctx context.Context) (sql string, err error) {
	sql = `
CREATE TABLE IF NOT EXISTS applications (
    id               BIGINT PRIMARY KEY,
    owner_user_id    BIGINT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    name             VARCHAR(255) NOT NULL,
    description      TEXT NOT NULL DEFAULT '',
    application_type VARCHAR(16) NOT NULL,
    display_order    INTEGER NOT NULL CHECK (display_order > 0),
    github_url       TEXT NOT NULL DEFAULT '',
    is_active        BOOLEAN NOT NULL DEFAULT TRUE,
    images           TEXT[] NOT NULL DEFAULT '{}',
    created_at       BIGINT NOT NULL,
    updated_at       BIGINT NOT NULL,
    deleted_at       BIGINT NOT NULL DEFAULT 0
);

CREATE UNIQUE INDEX IF NOT EXISTS applications_name_live_uidx
    ON applications (LOWER(name)) WHERE deleted_at = 0;

CREATE INDEX IF NOT EXISTS applications_owner_order_live_idx
    ON applications (owner_user_id, display_order) WHERE deleted_at = 0;

CREATE INDEX IF NOT EXISTS applications_owner_live_idx
    ON applications (owner_user_id) WHERE deleted_at = 0;
`
	return
}

func (m CreateApplicationsTable1689200177) Down(ctx context.Context) (sql string, err error) {
	sql = `DROP TABLE IF EXISTS applications;`
	return
}
