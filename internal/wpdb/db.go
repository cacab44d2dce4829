// Package wpdb reads what stripdb needs straight from a WordPress database:
// the table inventory and the list of active plugins.
package wpdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/danieljhkim/stripdb/internal/logger"
)

// errNoSuchTable is MySQL's ER_NO_SUCH_TABLE.
const errNoSuchTable = 1146

// Open connects to the database described by cfg and verifies the connection.
func Open(ctx context.Context, cfg *mysql.Config) (*sql.DB, error) {
	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(2)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s/%s: %w", cfg.Addr, cfg.DBName, err)
	}
	logger.Debug("connected to database", "addr", cfg.Addr, "database", cfg.DBName)
	return db, nil
}

// Inventory lists the tables of the connected database.
type Inventory struct {
	db *sql.DB
}

// NewInventory creates an Inventory reading from db.
func NewInventory(db *sql.DB) *Inventory {
	return &Inventory{db: db}
}

// ListTables returns every table in the current database, in server order.
func (i *Inventory) ListTables(ctx context.Context) ([]string, error) {
	rows, err := i.db.QueryContext(ctx, "SHOW TABLES")
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	return tables, nil
}

func isNoSuchTable(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == errNoSuchTable
}
