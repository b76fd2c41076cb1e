package dbms

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	// Import of the PostgreSQL driver to be used by the database/sql API
	_ "github.com/lib/pq"

	"dbhandler/handler"
)

func init() {
	handler.Register("postgresql", func(name string, conn handler.ConnectionData) handler.Handler {
		return NewSQLHandler(name, PostgreSQL{}, conn)
	})
}

// PostgreSQL is the dialect for the PostgreSQL DBMS.
type PostgreSQL struct{}

// DriverName implements the DriverName method of the Dialect interface.
func (PostgreSQL) DriverName() string {
	return "postgres"
}

// DSN implements the DSN method of the Dialect interface.
func (PostgreSQL) DSN(conn handler.ConnectionData) (string, error) {
	if err := conn.Require("host", "user", "password", "database"); err != nil {
		return "", err
	}
	var dsn strings.Builder
	fmt.Fprintf(&dsn, "host=%s user=%s password=%s dbname=%s sslmode=disable",
		conn.Get("host"), conn.Get("user"), conn.Get("password"), conn.Get("database"))
	if port := conn.Get("port"); port != "" {
		fmt.Fprintf(&dsn, " port=%s", port)
	}
	return dsn.String(), nil
}

// TablesQuery implements the TablesQuery method of the Dialect interface.
func (PostgreSQL) TablesQuery(schema string) (string, []any) {
	query := "select TABLE_NAME, TABLE_SCHEMA, TABLE_TYPE from information_schema.tables"
	if schema == "" {
		return query + " where table_schema = current_schema()", nil
	}
	return query + " where table_schema = $1", []any{schema}
}

// ColumnsQuery implements the ColumnsQuery method of the Dialect interface.
func (PostgreSQL) ColumnsQuery(table string) (string, []any) {
	return "select COLUMN_NAME, DATA_TYPE from information_schema.columns where table_name = $1 order by ordinal_position",
		[]any{table}
}

// Placeholder implements the Placeholder method of the Dialect interface.
func (PostgreSQL) Placeholder() sq.PlaceholderFormat {
	return sq.Dollar
}
