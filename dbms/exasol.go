package dbms

import (
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/exasol/exasol-driver-go"

	"dbhandler/handler"
)

func init() {
	handler.Register("exasol", func(name string, conn handler.ConnectionData) handler.Handler {
		return NewSQLHandler(name, Exasol{}, conn)
	})
}

// Exasol is the dialect for the Exasol DBMS. Exasol has no databases,
// only schemas, so the database parameter is not required.
type Exasol struct{}

// DriverName implements the DriverName method of the Dialect interface.
func (Exasol) DriverName() string {
	return "exasol"
}

// DSN implements the DSN method of the Dialect interface.
func (Exasol) DSN(conn handler.ConnectionData) (string, error) {
	if err := conn.Require("host", "user", "password"); err != nil {
		return "", err
	}
	port := 8563
	if p := conn.Get("port"); p != "" {
		v, err := strconv.Atoi(p)
		if err != nil {
			return "", err
		}
		port = v
	}
	cfg := exasol.NewConfig(conn.Get("user"), conn.Get("password")).
		Host(conn.Get("host")).
		Port(port).
		ValidateServerCertificate(false)
	return cfg.String(), nil
}

// TablesQuery implements the TablesQuery method of the Dialect interface.
func (Exasol) TablesQuery(schema string) (string, []any) {
	query := "select TABLE_NAME, TABLE_SCHEMA, 'BASE TABLE' as TABLE_TYPE from EXA_ALL_TABLES"
	if schema == "" {
		return query + " where TABLE_SCHEMA = CURRENT_SCHEMA", nil
	}
	return query + " where TABLE_SCHEMA = ?", []any{strings.ToUpper(schema)}
}

// ColumnsQuery implements the ColumnsQuery method of the Dialect interface.
func (Exasol) ColumnsQuery(table string) (string, []any) {
	return "select COLUMN_NAME, COLUMN_TYPE as DATA_TYPE from EXA_ALL_COLUMNS where COLUMN_TABLE = ? order by COLUMN_ORDINAL_POSITION",
		[]any{strings.ToUpper(table)}
}

// Placeholder implements the Placeholder method of the Dialect interface.
func (Exasol) Placeholder() sq.PlaceholderFormat {
	return sq.Question
}
