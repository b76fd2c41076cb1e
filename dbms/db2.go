package dbms

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"dbhandler/handler"
)

func init() {
	handler.Register("db2", func(name string, conn handler.ConnectionData) handler.Handler {
		return NewSQLHandler(name, DB2{}, conn)
	})
}

// DB2 is the dialect for IBM DB2, served by the go_ibm_db driver. The
// driver wraps the DB2 CLI libraries and is only linked when building
// with the ibm_db tag (see db2_driver.go); without it, connecting fails
// with an unknown driver error while everything else keeps working.
type DB2 struct{}

// DriverName implements the DriverName method of the Dialect interface.
func (DB2) DriverName() string {
	return "go_ibm_db"
}

// DSN implements the DSN method of the Dialect interface. Port and
// schema are optional; all other parameters are mandatory.
func (DB2) DSN(conn handler.ConnectionData) (string, error) {
	if err := conn.Require("host", "user", "password", "database"); err != nil {
		return "", err
	}
	var dsn strings.Builder
	fmt.Fprintf(&dsn, "HOSTNAME=%s;DATABASE=%s;PROTOCOL=TCPIP;UID=%s;PWD=%s;",
		conn.Get("host"), conn.Get("database"), conn.Get("user"), conn.Get("password"))
	if port := conn.Get("port"); port != "" {
		fmt.Fprintf(&dsn, "PORT=%s;", port)
	}
	if schema := conn.Get("schema"); schema != "" {
		fmt.Fprintf(&dsn, "CURRENTSCHEMA=%s;", schema)
	}
	return dsn.String(), nil
}

// TablesQuery implements the TablesQuery method of the Dialect interface.
func (DB2) TablesQuery(schema string) (string, []any) {
	query := "select TABNAME as TABLE_NAME, TABSCHEMA as TABLE_SCHEMA, TYPE as TABLE_TYPE from SYSCAT.TABLES"
	if schema == "" {
		return query + " where TABSCHEMA = CURRENT SCHEMA", nil
	}
	return query + " where TABSCHEMA = ?", []any{strings.ToUpper(schema)}
}

// ColumnsQuery implements the ColumnsQuery method of the Dialect interface.
func (DB2) ColumnsQuery(table string) (string, []any) {
	return "select COLNAME as COLUMN_NAME, TYPENAME as DATA_TYPE from SYSCAT.COLUMNS where TABNAME = ? order by COLNO",
		[]any{strings.ToUpper(table)}
}

// Placeholder implements the Placeholder method of the Dialect interface.
func (DB2) Placeholder() sq.PlaceholderFormat {
	return sq.Question
}
