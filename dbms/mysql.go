package dbms

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"

	// Import of the MySQL driver to be used by the database/sql API
	_ "github.com/go-sql-driver/mysql"

	"dbhandler/handler"
)

func init() {
	handler.Register("mysql", func(name string, conn handler.ConnectionData) handler.Handler {
		return NewSQLHandler(name, MySQL{}, conn)
	})
}

// MySQL is the dialect for the MySQL DBMS.
type MySQL struct{}

// DriverName implements the DriverName method of the Dialect interface.
func (MySQL) DriverName() string {
	return "mysql"
}

// DSN implements the DSN method of the Dialect interface.
func (MySQL) DSN(conn handler.ConnectionData) (string, error) {
	if err := conn.Require("host", "user", "password", "database"); err != nil {
		return "", err
	}
	port := conn.Get("port")
	if port == "" {
		port = "3306"
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s",
		conn.Get("user"), conn.Get("password"), conn.Get("host"), port, conn.Get("database")), nil
}

// TablesQuery implements the TablesQuery method of the Dialect interface.
func (MySQL) TablesQuery(schema string) (string, []any) {
	query := "select TABLE_NAME, TABLE_SCHEMA, TABLE_TYPE from information_schema.tables"
	if schema == "" {
		return query + " where TABLE_SCHEMA = database()", nil
	}
	return query + " where TABLE_SCHEMA = ?", []any{schema}
}

// ColumnsQuery implements the ColumnsQuery method of the Dialect interface.
func (MySQL) ColumnsQuery(table string) (string, []any) {
	return "select COLUMN_NAME, DATA_TYPE from information_schema.columns where TABLE_NAME = ? order by ORDINAL_POSITION",
		[]any{table}
}

// Placeholder implements the Placeholder method of the Dialect interface.
func (MySQL) Placeholder() sq.PlaceholderFormat {
	return sq.Question
}
