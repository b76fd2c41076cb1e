package dbms

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	// Import of the MS SQL Server driver to be used by the database/sql API
	_ "github.com/denisenkom/go-mssqldb"

	"dbhandler/handler"
)

func init() {
	handler.Register("mssql", func(name string, conn handler.ConnectionData) handler.Handler {
		return NewSQLHandler(name, MSSQL{}, conn)
	})
}

// MSSQL is the dialect for the MS SQL Server DBMS.
type MSSQL struct{}

// DriverName implements the DriverName method of the Dialect interface.
func (MSSQL) DriverName() string {
	return "sqlserver"
}

// DSN implements the DSN method of the Dialect interface.
func (MSSQL) DSN(conn handler.ConnectionData) (string, error) {
	if err := conn.Require("host", "user", "password", "database"); err != nil {
		return "", err
	}
	var dsn strings.Builder
	fmt.Fprintf(&dsn, "server=%s;user id=%s;password=%s;database=%s;",
		conn.Get("host"), conn.Get("user"), conn.Get("password"), conn.Get("database"))
	if port := conn.Get("port"); port != "" {
		fmt.Fprintf(&dsn, "port=%s;", port)
	}
	return dsn.String(), nil
}

// TablesQuery implements the TablesQuery method of the Dialect interface.
func (MSSQL) TablesQuery(schema string) (string, []any) {
	query := "select TABLE_NAME, TABLE_SCHEMA, TABLE_TYPE from INFORMATION_SCHEMA.TABLES"
	if schema == "" {
		return query + " where TABLE_SCHEMA = schema_name()", nil
	}
	return query + " where TABLE_SCHEMA = @p1", []any{schema}
}

// ColumnsQuery implements the ColumnsQuery method of the Dialect interface.
func (MSSQL) ColumnsQuery(table string) (string, []any) {
	return "select COLUMN_NAME, DATA_TYPE from INFORMATION_SCHEMA.COLUMNS where TABLE_NAME = @p1 order by ORDINAL_POSITION",
		[]any{table}
}

// Placeholder implements the Placeholder method of the Dialect interface.
func (MSSQL) Placeholder() sq.PlaceholderFormat {
	return sq.AtP
}
