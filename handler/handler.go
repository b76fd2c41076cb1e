// Package handler defines the generic database handler contract: a fixed
// set of operations (connect, disconnect, check, native query, abstract
// query, table and column listing) every backend implements, plus the
// registry the host uses to construct handlers by kind.
package handler

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ConnectionData holds the named connection parameters supplied by the
// host at construction time (host, user, password, database, port,
// schema, ...). All values are strings; backends parse what they need.
type ConnectionData map[string]string

// Get returns the value of key, or an empty string if the key is absent.
func (c ConnectionData) Get(key string) string {
	return c[key]
}

// Require checks that all given keys are present and non-empty.
// It returns a *MissingParamError naming every absent key.
func (c ConnectionData) Require(keys ...string) error {
	var missing []string
	for _, key := range keys {
		if c[key] == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return &MissingParamError{Params: missing}
	}
	return nil
}

// MissingParamError reports connection parameters that are required by a
// backend but absent from the supplied ConnectionData. It is returned
// before any network activity takes place.
type MissingParamError struct {
	Params []string
}

func (e *MissingParamError) Error() string {
	return fmt.Sprintf("required parameters (%s) must be provided", strings.Join(e.Params, ", "))
}

// AbstractQuery is a structured, dialect independent representation of a
// SQL statement. It is rendered to text and bound arguments by an
// external renderer before execution; the squirrel builders satisfy it.
type AbstractQuery interface {
	ToSql() (string, []any, error)
}

// Handler is the contract every database backend implements.
type Handler interface {
	// Name returns the handler instance name.
	Name() string
	// Connect opens the backend connection. It is idempotent while the
	// handler is already connected and validates the connection
	// parameters before any network activity.
	Connect(ctx context.Context) error
	// Disconnect closes the connection if one exists; calling it on a
	// disconnected handler is a no-op.
	Disconnect() error
	// IsConnected reports the current connection state.
	IsConnected() bool
	// CheckConnection attempts a connection and restores the prior
	// connection state afterwards.
	CheckConnection(ctx context.Context) StatusResponse
	// NativeQuery executes raw SQL text.
	NativeQuery(ctx context.Context, query string) Response
	// Query renders an abstract query to dialect SQL and executes it.
	Query(ctx context.Context, query AbstractQuery) Response
	// GetTables lists the tables visible to the configured schema.
	GetTables(ctx context.Context) Response
	// GetColumns lists the columns of the given table.
	GetColumns(ctx context.Context, table string) Response
}

// Factory builds a handler instance from its connection parameters.
type Factory func(name string, conn ConnectionData) Handler

var (
	registryMtx sync.Mutex
	registry    = make(map[string]Factory)
)

// Register makes a handler kind available to New. It is meant to be
// called from backend init functions and panics on duplicates.
func Register(kind string, factory Factory) {
	registryMtx.Lock()
	defer registryMtx.Unlock()
	if factory == nil {
		panic("handler: Register factory is nil")
	}
	if _, ok := registry[kind]; ok {
		panic("handler: Register called twice for kind " + kind)
	}
	registry[kind] = factory
}

// New constructs a handler of the given kind.
func New(kind, name string, conn ConnectionData) (Handler, error) {
	registryMtx.Lock()
	factory, ok := registry[kind]
	registryMtx.Unlock()
	if !ok {
		return nil, fmt.Errorf("unknown handler kind '%s'", kind)
	}
	return factory(name, conn), nil
}

// Kinds returns the registered handler kinds in sorted order.
func Kinds() []string {
	registryMtx.Lock()
	defer registryMtx.Unlock()
	kinds := make([]string, 0, len(registry))
	for kind := range registry {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}
