// Package resultcache materializes traversal result sets into an embedded
// DuckDB table so callers can inspect them with SQL or export them as
// tabular data.
package resultcache

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2"
)

// Cache owns an embedded DuckDB instance holding materialized result
// tables. One cache serves many result sets; tables are dropped on Drop
// or when the cache is closed.
type Cache struct {
	db *sql.DB
}

// Open creates a cache backed by an in-memory DuckDB database.
func Open() (*Cache, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	return &Cache{db: db}, nil
}

// NewWithDB wraps an existing DuckDB handle. The caller keeps ownership
// of the handle; Close becomes a no-op.
func NewWithDB(db *sql.DB) *Cache {
	return &Cache{db: db}
}

// Materialize loads the result values into a fresh table and returns its
// name. Map-shaped values become one column per key; scalar values become
// a single "value" column. Everything is stored as VARCHAR, matching the
// engine's stringly-typed result frames.
func (c *Cache) Materialize(ctx context.Context, values []interface{}) (string, error) {
	tableName := "_result_" + randomSuffix()
	columns, rows := Tabulate(values)

	conn, err := c.db.Conn(ctx)
	if err != nil {
		return "", fmt.Errorf("pin connection: %w", err)
	}
	defer conn.Close() //nolint:errcheck

	if err := createResultTable(ctx, conn, tableName, columns); err != nil {
		return "", err
	}
	if err := insertResultRows(ctx, conn, tableName, rows, columns); err != nil {
		return "", err
	}
	return tableName, nil
}

// Query returns the rows of a previously materialized table.
func (c *Cache) Query(ctx context.Context, tableName string) (*sql.Rows, error) {
	rows, err := c.db.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %q", tableName)) //nolint:gosec // tableName is generated internally, not user input
	if err != nil {
		return nil, fmt.Errorf("select from result table: %w", err)
	}
	return rows, nil
}

// Drop removes a materialized table.
func (c *Cache) Drop(ctx context.Context, tableName string) error {
	if _, err := c.db.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %q", tableName)); err != nil {
		return fmt.Errorf("drop result table: %w", err)
	}
	return nil
}

// Close releases the embedded database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Tabulate derives a column set and rows from raw result values. Columns
// are the union of map keys across all rows, sorted for a stable layout;
// non-map values collapse into a single "value" column. Cells are rendered
// strings, or nil where a row has no value for a column. Both the cached
// and the direct render paths shape results through this one function.
func Tabulate(values []interface{}) ([]string, [][]interface{}) {
	keySet := make(map[string]struct{})
	scalar := false
	for _, v := range values {
		m, ok := v.(map[string]interface{})
		if !ok {
			scalar = true
			continue
		}
		for k := range m {
			keySet[k] = struct{}{}
		}
	}

	columns := make([]string, 0, len(keySet))
	for k := range keySet {
		columns = append(columns, k)
	}
	sort.Strings(columns)
	if scalar || len(columns) == 0 {
		columns = append([]string{"value"}, columns...)
	}

	rows := make([][]interface{}, 0, len(values))
	for _, v := range values {
		row := make([]interface{}, len(columns))
		if m, ok := v.(map[string]interface{}); ok {
			for i, col := range columns {
				if cell, ok := m[col]; ok && cell != nil {
					row[i] = renderCell(cell)
				}
			}
		} else if v != nil {
			row[0] = renderCell(v)
		}
		rows = append(rows, row)
	}
	return columns, rows
}

// renderCell serializes nested structures as JSON so tabular output never
// shows Go's map[...] syntax.
func renderCell(v interface{}) string {
	switch v.(type) {
	case map[string]interface{}, []interface{}:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func createResultTable(ctx context.Context, conn *sql.Conn, tableName string, columns []string) error {
	colDefs := make([]string, 0, len(columns))
	for _, col := range columns {
		colDefs = append(colDefs, fmt.Sprintf("%q VARCHAR", col))
	}
	createSQL := fmt.Sprintf("CREATE TABLE %q (%s)", tableName, strings.Join(colDefs, ", "))
	if _, err := conn.ExecContext(ctx, createSQL); err != nil {
		return fmt.Errorf("create result table: %w", err)
	}
	return nil
}

func insertResultRows(ctx context.Context, conn *sql.Conn, tableName string, rows [][]interface{}, columns []string) error {
	if len(rows) == 0 {
		return nil
	}

	placeholders := make([]string, len(columns))
	for i := range placeholders {
		placeholders[i] = "?"
	}
	insertSQL := fmt.Sprintf("INSERT INTO %q VALUES (%s)", tableName, strings.Join(placeholders, ", ")) //nolint:gosec // tableName is generated internally
	for _, row := range rows {
		if _, err := conn.ExecContext(ctx, insertSQL, row...); err != nil {
			return fmt.Errorf("insert result row: %w", err)
		}
	}
	return nil
}

// randomSuffix generates a cryptographically random hex suffix for result table names.
func randomSuffix() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "fallback"
	}
	return hex.EncodeToString(b)
}
