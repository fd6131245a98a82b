package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS organizations (
    id         INTEGER PRIMARY KEY,
    name       TEXT NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_organizations_name_active
    ON organizations(name) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS users (
    id              INTEGER PRIMARY KEY,
    username        TEXT NOT NULL,
    password_hash   TEXT NOT NULL,
    role            TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('admin', 'manager', 'user')),
    organization_id INTEGER REFERENCES organizations(id),
    created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at      DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_active
    ON users(username) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS items (
    id              INTEGER PRIMARY KEY,
    organization_id INTEGER NOT NULL REFERENCES organizations(id),
    name            TEXT NOT NULL,
    description     TEXT,
    partner_key     TEXT,
    barcode_count   INTEGER NOT NULL DEFAULT 0,
    image           BLOB,
    image_mime      TEXT,
    status          TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'retired')),
    created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at      DATETIME
);

CREATE INDEX IF NOT EXISTS idx_items_organization ON items(organization_id);
CREATE INDEX IF NOT EXISTS idx_items_partner_key ON items(partner_key);

CREATE TABLE IF NOT EXISTS canonical_items (
    id            INTEGER PRIMARY KEY,
    name          TEXT NOT NULL,
    partner_key   TEXT NOT NULL,
    barcode_count INTEGER NOT NULL DEFAULT 0,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_canonical_items_partner_key
    ON canonical_items(partner_key);

CREATE TABLE IF NOT EXISTS barcodes (
    id              INTEGER PRIMARY KEY,
    value           TEXT NOT NULL,
    quantity        INTEGER NOT NULL CHECK (quantity >= 0),
    owner_kind      TEXT NOT NULL CHECK (owner_kind IN ('item', 'canonical_item')),
    owner_id        INTEGER NOT NULL,
    organization_id INTEGER REFERENCES organizations(id),
    created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Two independent uniqueness domains: the global set, and each organization.
-- A local value never collides with a global value of the same string.
CREATE UNIQUE INDEX IF NOT EXISTS idx_barcodes_value_global
    ON barcodes(value) WHERE organization_id IS NULL;
CREATE UNIQUE INDEX IF NOT EXISTS idx_barcodes_value_org
    ON barcodes(organization_id, value) WHERE organization_id IS NOT NULL;

CREATE INDEX IF NOT EXISTS idx_barcodes_owner ON barcodes(owner_kind, owner_id);

CREATE TABLE IF NOT EXISTS inventory (
    organization_id INTEGER NOT NULL REFERENCES organizations(id),
    item_id         INTEGER NOT NULL REFERENCES items(id),
    quantity        INTEGER NOT NULL CHECK (quantity > 0),
    PRIMARY KEY (organization_id, item_id)
);

CREATE TABLE IF NOT EXISTS distributions (
    id              INTEGER PRIMARY KEY,
    organization_id INTEGER NOT NULL REFERENCES organizations(id),
    item_id         INTEGER NOT NULL REFERENCES items(id),
    quantity        INTEGER NOT NULL CHECK (quantity > 0),
    notes           TEXT,
    distributed_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    distributed_by  INTEGER REFERENCES users(id)
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
