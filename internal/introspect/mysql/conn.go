// Package mysql is the live execution channel for MySQL, MariaDB and TiDB
// servers. It owns a single pooled connection used to run generated statements
// and read back the server's own rendering of the resulting tables.
package mysql

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql" // registers the "mysql" driver

	mysqldialect "json2sql/internal/dialect/mysql"
)

// Conn is a single MySQL connection. It is not safe for concurrent use.
type Conn struct {
	db    *sql.DB
	quote func(string) string
}

// Open connects to dsn and pings the server. On a failed ping the handle is closed.
func Open(ctx context.Context, dsn string) (*Conn, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	db.SetMaxOpenConns(1)

	if pingErr := db.PingContext(ctx); pingErr != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("failed to ping database: %v; additionally failed to close connection: %w", pingErr, closeErr)
		}
		return nil, fmt.Errorf("failed to ping database: %w", pingErr)
	}

	return NewConn(db), nil
}

// NewConn wraps an already opened handle.
func NewConn(db *sql.DB) *Conn {
	return &Conn{
		db:    db,
		quote: mysqldialect.NewMySQLGenerator("").QuoteIdentifier,
	}
}

// Exec runs one statement.
func (c *Conn) Exec(ctx context.Context, stmt string) error {
	if _, err := c.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	return nil
}

// Tables lists the tables of the current database in server order.
func (c *Conn) Tables(ctx context.Context) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, "SHOW TABLES")
	if err != nil {
		return nil, fmt.Errorf("show tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("show tables: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("show tables: %w", err)
	}
	return names, nil
}

// ShowCreateTable returns the server's CREATE TABLE statement for name, without a terminator.
func (c *Conn) ShowCreateTable(ctx context.Context, name string) (string, error) {
	var table, ddl string
	err := c.db.QueryRowContext(ctx, "SHOW CREATE TABLE "+c.quote(name)).Scan(&table, &ddl)
	if err != nil {
		return "", fmt.Errorf("show create table %s: %w", name, err)
	}
	return ddl, nil
}

// Close releases the connection. It is safe to call on a nil or closed Conn.
func (c *Conn) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	db := c.db
	c.db = nil
	return db.Close()
}
