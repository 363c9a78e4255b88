package index

import "database/sql"

const schema = `
CREATE TABLE IF NOT EXISTS encoding (
    id   INTEGER PRIMARY KEY AUTOINCREMENT,
    type VARCHAR(50) NOT NULL
);

CREATE TABLE IF NOT EXISTS source (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    name        VARCHAR(512) NOT NULL,
    encoding_id INTEGER,
    FOREIGN KEY (encoding_id) REFERENCES encoding(id)
);

CREATE TABLE IF NOT EXISTS record (
    id        INTEGER PRIMARY KEY AUTOINCREMENT,
    start_pos INTEGER NOT NULL,
    end_pos   INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS token (
    id    INTEGER PRIMARY KEY AUTOINCREMENT,
    value VARCHAR(255) NOT NULL UNIQUE,
    count INTEGER DEFAULT 1
);

CREATE TABLE IF NOT EXISTS occurrence (
    id        INTEGER PRIMARY KEY AUTOINCREMENT,
    token_id  INTEGER NOT NULL,
    record_id INTEGER NOT NULL,
    FOREIGN KEY (token_id) REFERENCES token(id),
    FOREIGN KEY (record_id) REFERENCES record(id)
);

CREATE INDEX IF NOT EXISTS idx_token_value ON token(value);

CREATE INDEX IF NOT EXISTS idx_occurrence_token_record
    ON occurrence(token_id, record_id);
`

// EnsureSchema creates the index tables and their covering lookups in the
// provided database if they do not already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
