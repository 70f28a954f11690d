// Package mysql implements store.Store on MySQL, the engine of the legacy
// deployment. The queries mirror the SQLite store.
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"

	"github.com/go-sql-driver/mysql"
	"github.com/vovakirdan/msgboard/internal/store"
)

// schemaTemplate creates the message table when missing.
const schemaTemplate = `
CREATE TABLE IF NOT EXISTS %s (
	id      BIGINT AUTO_INCREMENT PRIMARY KEY,
	message TEXT NOT NULL
)`

// ErrInvalidTable is returned for table names that are not plain identifiers.
var ErrInvalidTable = errors.New("invalid table name")

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,63}$`)

// MySQLStore implements store.Store for MySQL.
type MySQLStore struct {
	db      *sql.DB
	queries queries
}

type queries struct {
	schema string
	list   string
	get    string
	insert string
	update string
	delete string
}

func buildQueries(table string) (queries, error) {
	if !tableName.MatchString(table) {
		return queries{}, fmt.Errorf("%w: %q", ErrInvalidTable, table)
	}
	t := "`" + table + "`"
	return queries{
		schema: fmt.Sprintf(schemaTemplate, t),
		list:   "SELECT id, message FROM " + t + " ORDER BY id",
		get:    "SELECT id, message FROM " + t + " WHERE id = ?",
		insert: "INSERT INTO " + t + " (message) VALUES (?)",
		update: "UPDATE " + t + " SET message = ? WHERE id = ?",
		delete: "DELETE FROM " + t + " WHERE id = ?",
	}, nil
}

// New opens a MySQL store on table and ensures the table exists.
func New(dsn, table string) (*MySQLStore, error) {
	q, err := buildQueries(table)
	if err != nil {
		return nil, err
	}

	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse mysql dsn: %w", err)
	}
	// Report matched rows so an update with unchanged text is not mistaken for a missing id.
	cfg.ClientFoundRows = true

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("mysql connector: %w", err)
	}
	db := sql.OpenDB(connector)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}
	if _, err := db.Exec(q.schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &MySQLStore{db: db, queries: q}, nil
}

// Close closes the database connection.
func (s *MySQLStore) Close() error {
	return s.db.Close()
}

func (s *MySQLStore) ListMessages(ctx context.Context) ([]*store.Message, error) {
	rows, err := s.db.QueryContext(ctx, s.queries.list)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	messages := make([]*store.Message, 0)
	for rows.Next() {
		var msg store.Message
		if err := rows.Scan(&msg.ID, &msg.Content); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, &msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}
	return messages, nil
}

func (s *MySQLStore) GetMessage(ctx context.Context, id int64) (*store.Message, error) {
	var msg store.Message
	err := s.db.QueryRowContext(ctx, s.queries.get, id).
		Scan(&msg.ID, &msg.Content)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("query message: %w", err)
	}
	return &msg, nil
}

func (s *MySQLStore) CreateMessage(ctx context.Context, content string) (*store.Message, error) {
	result, err := s.db.ExecContext(ctx, s.queries.insert, content)
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get last insert id: %w", err)
	}
	return &store.Message{ID: id, Content: content}, nil
}

func (s *MySQLStore) UpdateMessage(ctx context.Context, id int64, content string) error {
	result, err := s.db.ExecContext(ctx, s.queries.update, content, id)
	if err != nil {
		return fmt.Errorf("update message: %w", err)
	}
	return requireAffected(result)
}

func (s *MySQLStore) DeleteMessage(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, s.queries.delete, id)
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return requireAffected(result)
}

func requireAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
