package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS dashboards (
    session_id           TEXT PRIMARY KEY,
    payload              TEXT NOT NULL,
    fetched_at           INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS login_attempts (
    login_id             TEXT PRIMARY KEY,
    cookie               TEXT NOT NULL,
    action               TEXT NOT NULL,
    fields               TEXT NOT NULL,
    created_at           INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_dashboards_fetched ON dashboards(fetched_at);
CREATE INDEX IF NOT EXISTS idx_login_attempts_created ON login_attempts(created_at);
`
