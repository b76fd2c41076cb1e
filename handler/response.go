package handler

import "errors"

// ResponseType discriminates the result envelope variants.
type ResponseType string

const (
	// ResponseTypeTable marks a tabular result with named columns.
	ResponseTypeTable ResponseType = "table"
	// ResponseTypeOK marks a bare acknowledgment without a data payload.
	ResponseTypeOK ResponseType = "ok"
	// ResponseTypeError marks a failed operation carrying the message text.
	ResponseTypeError ResponseType = "error"
)

// Response is the generic result envelope returned to the host: a table,
// an acknowledgment, or an error. Rows keep the driver's value types.
type Response struct {
	Type         ResponseType
	Columns      []string
	Rows         [][]any
	RowsAffected int64
	ErrorMessage string
}

// StatusResponse reports the outcome of a connection check.
type StatusResponse struct {
	Success      bool
	ErrorMessage string
}

// TableResponse wraps a result set into a table response.
func TableResponse(columns []string, rows [][]any) Response {
	return Response{Type: ResponseTypeTable, Columns: columns, Rows: rows}
}

// OKResponse acknowledges a statement that produced no result set.
func OKResponse(rowsAffected int64) Response {
	return Response{Type: ResponseTypeOK, RowsAffected: rowsAffected}
}

// ErrorResponse converts a failure into an error response.
func ErrorResponse(err error) Response {
	return Response{Type: ResponseTypeError, ErrorMessage: err.Error()}
}

// Err returns the error carried by an error response, nil otherwise.
func (r Response) Err() error {
	if r.Type != ResponseTypeError {
		return nil
	}
	return errors.New(r.ErrorMessage)
}
