package pgsql

import (
	"context"
	"fmt"
)

// CreateComponentTables1689200243 is struct to define a migration with ID 1689200243_create_component_tables
type CreateComponentTables1689200243 struct{}

func (m CreateComponentTables1689200243) ID(ctx context.Context) string {
	return fmt.Sprintf("%d_%s.sql", 1689200243, "create_component_tables")
}

func (m CreateComponentTables1689200243) SequenceNumber(ctx context.Context) int {
	return 1689200243
}

// Up return sql migration for sync database.
// Every component table shares its primary key with the owning application row,
// which structurally caps each slot at one row per application and lets
// ON DELETE CASCADE remove components with the parent.
func (m CreateComponentTables1689200243) Up(ctx context.Context) (sql string, err error) {
	sql = `
CREATE TABLE IF NOT EXISTS application_api_components (
    application_id        BIGINT PRIMARY KEY REFERENCES applications (id) ON DELETE CASCADE,
    domain                VARCHAR(255) NOT NULL,
    api_url               TEXT NOT NULL,
    documentation_url     TEXT NOT NULL DEFAULT '',
    health_check_endpoint TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS application_mobile_components (
    application_id    BIGINT PRIMARY KEY REFERENCES applications (id) ON DELETE CASCADE,
    platform          VARCHAR(32) NOT NULL,
    download_url      TEXT NOT NULL DEFAULT '',
    associated_api_id BIGINT NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS application_library_components (
    application_id      BIGINT PRIMARY KEY REFERENCES applications (id) ON DELETE CASCADE,
    package_manager_url TEXT NOT NULL,
    readme_content      TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS application_frontend_components (
    application_id    BIGINT PRIMARY KEY REFERENCES applications (id) ON DELETE CASCADE,
    frontend_url      TEXT NOT NULL,
    screenshot_url    TEXT NOT NULL DEFAULT '',
    associated_api_id BIGINT NOT NULL DEFAULT 0
);
`
	return
}

func (m CreateComponentTables1689200243) Down(ctx context.Context) (sql string, err error) {
	sql = `
DROP TABLE IF EXISTS application_frontend_components;
DROP TABLE IF EXISTS application_library_components;
DROP TABLE IF EXISTS application_mobile_components;
DROP TABLE IF EXISTS application_api_components;
`
	return
}
