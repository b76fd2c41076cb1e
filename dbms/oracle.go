package dbms

import (
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"
	go_ora "github.com/sijms/go-ora/v2"

	"dbhandler/handler"
)

func init() {
	handler.Register("oracle", func(name string, conn handler.ConnectionData) handler.Handler {
		return NewSQLHandler(name, Oracle{}, conn)
	})
}

// Oracle is the dialect for the Oracle DBMS. The database parameter is
// the service name.
type Oracle struct{}

// DriverName implements the DriverName method of the Dialect interface.
func (Oracle) DriverName() string {
	return "oracle"
}

// DSN implements the DSN method of the Dialect interface.
func (Oracle) DSN(conn handler.ConnectionData) (string, error) {
	if err := conn.Require("host", "user", "password", "database"); err != nil {
		return "", err
	}
	port := 1521
	if p := conn.Get("port"); p != "" {
		v, err := strconv.Atoi(p)
		if err != nil {
			return "", err
		}
		port = v
	}
	return go_ora.BuildUrl(conn.Get("host"), port, conn.Get("database"), conn.Get("user"), conn.Get("password"), nil), nil
}

// TablesQuery implements the TablesQuery method of the Dialect interface.
func (Oracle) TablesQuery(schema string) (string, []any) {
	if schema == "" {
		return "select TABLE_NAME, USER as TABLE_SCHEMA, 'BASE TABLE' as TABLE_TYPE from USER_TABLES", nil
	}
	return "select TABLE_NAME, OWNER as TABLE_SCHEMA, 'BASE TABLE' as TABLE_TYPE from ALL_TABLES where OWNER = :1",
		[]any{strings.ToUpper(schema)}
}

// ColumnsQuery implements the ColumnsQuery method of the Dialect interface.
func (Oracle) ColumnsQuery(table string) (string, []any) {
	return "select COLUMN_NAME, DATA_TYPE from ALL_TAB_COLUMNS where TABLE_NAME = :1 order by COLUMN_ID",
		[]any{strings.ToUpper(table)}
}

// Placeholder implements the Placeholder method of the Dialect interface.
func (Oracle) Placeholder() sq.PlaceholderFormat {
	return sq.Colon
}
