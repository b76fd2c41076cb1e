// Package dbms implements the generic database handler contract on top
// of the database/sql API. The shared SQLHandler carries the lifecycle
// and query semantics; each supported DBMS only contributes a Dialect
// with its driver name, connection string, catalog queries and
// placeholder format.
package dbms

import (
	"context"
	"database/sql"
	"strings"
	"unicode"

	sq "github.com/Masterminds/squirrel"
	"github.com/hashicorp/go-multierror"
	slogctx "github.com/veqryn/slog-context"

	"dbhandler/handler"
)

// Dialect supplies the DBMS specific pieces of a SQL handler.
type Dialect interface {
	// DriverName returns the database/sql driver registration name.
	DriverName() string
	// DSN validates the connection parameters and builds the driver
	// connection string. Missing required parameters are reported as a
	// *handler.MissingParamError before any network activity.
	DSN(conn handler.ConnectionData) (string, error)
	// TablesQuery returns the catalog query listing the tables of the
	// given schema, or of the connection default schema if empty.
	TablesQuery(schema string) (string, []any)
	// ColumnsQuery returns the catalog query listing the columns of a table.
	ColumnsQuery(table string) (string, []any)
	// Placeholder returns the parameter placeholder format the DBMS expects.
	Placeholder() sq.PlaceholderFormat
}

// SQLHandler implements handler.Handler for any Dialect. The zero value
// is not usable; construct instances with NewSQLHandler.
type SQLHandler struct {
	name      string
	dialect   Dialect
	conn      handler.ConnectionData
	db        *sql.DB
	connected bool
}

// NewSQLHandler builds a handler instance for the given dialect. The
// connection is opened on demand, not here.
func NewSQLHandler(name string, dialect Dialect, conn handler.ConnectionData) *SQLHandler {
	return &SQLHandler{name: name, dialect: dialect, conn: conn}
}

// Name implements the Name method of the handler interface.
func (h *SQLHandler) Name() string {
	return h.name
}

// IsConnected implements the IsConnected method of the handler interface.
func (h *SQLHandler) IsConnected() bool {
	return h.connected
}

// Connect implements the Connect method of the handler interface.
func (h *SQLHandler) Connect(ctx context.Context) error {
	if h.connected {
		return nil
	}
	dsn, err := h.dialect.DSN(h.conn)
	if err != nil {
		return err
	}
	db, err := sql.Open(h.dialect.DriverName(), dsn)
	if err != nil {
		return err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		slogctx.FromCtx(ctx).Error("connection failed",
			"handler", h.name, "database", h.conn.Get("database"), "error", err)
		return err
	}
	h.db = db
	h.connected = true
	slogctx.FromCtx(ctx).Debug("connected", "handler", h.name, "database", h.conn.Get("database"))
	return nil
}

// Disconnect implements the Disconnect method of the handler interface.
func (h *SQLHandler) Disconnect() error {
	if !h.connected {
		return nil
	}
	err := h.db.Close()
	h.db = nil
	h.connected = false
	return err
}

// CheckConnection implements the CheckConnection method of the handler
// interface. A connection opened solely for the check is closed again,
// so the prior connection state is restored either way.
func (h *SQLHandler) CheckConnection(ctx context.Context) handler.StatusResponse {
	needDisconnect := !h.connected
	if err := h.Connect(ctx); err != nil {
		h.connected = false
		return handler.StatusResponse{ErrorMessage: err.Error()}
	}
	if needDisconnect {
		_ = h.Disconnect()
	}
	return handler.StatusResponse{Success: true}
}

// NativeQuery implements the NativeQuery method of the handler interface.
func (h *SQLHandler) NativeQuery(ctx context.Context, query string) handler.Response {
	return h.run(ctx, query, nil)
}

// Query implements the Query method of the handler interface. The
// abstract query is rendered to SQL text by the external renderer and
// its placeholders rewritten to the dialect format.
func (h *SQLHandler) Query(ctx context.Context, query handler.AbstractQuery) handler.Response {
	text, args, err := query.ToSql()
	if err != nil {
		return handler.ErrorResponse(err)
	}
	if pf := h.dialect.Placeholder(); pf != nil {
		if text, err = pf.ReplacePlaceholders(text); err != nil {
			return handler.ErrorResponse(err)
		}
	}
	return h.run(ctx, text, args)
}

// GetTables implements the GetTables method of the handler interface.
func (h *SQLHandler) GetTables(ctx context.Context) handler.Response {
	query, args := h.dialect.TablesQuery(h.conn.Get("schema"))
	return h.run(ctx, query, args)
}

// GetColumns implements the GetColumns method of the handler interface.
func (h *SQLHandler) GetColumns(ctx context.Context, table string) handler.Response {
	query, args := h.dialect.ColumnsQuery(table)
	return h.run(ctx, query, args)
}

// run executes a statement with the scoped acquire/release discipline: a
// connection opened for this call is closed again before returning.
func (h *SQLHandler) run(ctx context.Context, query string, args []any) handler.Response {
	needDisconnect := !h.connected
	if err := h.Connect(ctx); err != nil {
		return handler.ErrorResponse(err)
	}
	resp := h.execute(ctx, query, args)
	if needDisconnect {
		_ = h.Disconnect()
	}
	return resp
}

// execute runs a single statement in its own transaction, committing on
// success and rolling back on failure.
func (h *SQLHandler) execute(ctx context.Context, query string, args []any) handler.Response {
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return handler.ErrorResponse(err)
	}

	resp, err := h.runStatement(ctx, tx, query, args)
	if err != nil {
		slogctx.FromCtx(ctx).Error("statement failed", "handler", h.name, "error", err)
		if rbErr := tx.Rollback(); rbErr != nil {
			err = multierror.Append(err, rbErr)
		}
		return handler.ErrorResponse(err)
	}
	if err := tx.Commit(); err != nil {
		return handler.ErrorResponse(err)
	}
	return resp
}

func (h *SQLHandler) runStatement(ctx context.Context, tx *sql.Tx, query string, args []any) (handler.Response, error) {
	if !returnsRows(query) {
		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return handler.Response{}, err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			// Not every driver reports affected rows.
			affected = 0
		}
		return handler.OKResponse(affected), nil
	}

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return handler.Response{}, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return handler.Response{}, err
	}
	data, err := scanRows(rows, len(columns))
	if err != nil {
		return handler.Response{}, err
	}
	return handler.TableResponse(columns, data), nil
}

// returnsRows reports whether a statement produces a result set. The
// database/sql API offers no cursor attribute for this, so the decision
// is made on the leading keyword.
func returnsRows(query string) bool {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return false
	}
	verb := strings.TrimLeft(fields[0], "(")
	if i := strings.IndexFunc(verb, func(r rune) bool { return !unicode.IsLetter(r) }); i >= 0 {
		verb = verb[:i]
	}
	switch strings.ToUpper(verb) {
	case "SELECT", "VALUES", "WITH", "SHOW", "EXPLAIN", "DESCRIBE", "CALL":
		return true
	}
	return false
}

// scanRows reads all rows keeping the driver's native value types.
func scanRows(rows *sql.Rows, numColumns int) ([][]any, error) {
	var data [][]any
	for rows.Next() {
		holders := make([]any, numColumns)
		for i := range holders {
			holders[i] = new(any)
		}
		if err := rows.Scan(holders...); err != nil {
			return nil, err
		}
		row := make([]any, numColumns)
		for i := range holders {
			row[i] = *(holders[i].(*any))
		}
		data = append(data, row)
	}
	return data, rows.Err()
}
