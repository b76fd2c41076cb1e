package dbms

import (
	"strings"
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dbhandler/handler"
)

func TestDB2DSN(t *testing.T) {
	t.Run("mandatory parameters only", func(t *testing.T) {
		dsn, err := DB2{}.DSN(sampleConnection())
		require.NoError(t, err)
		assert.Equal(t, "HOSTNAME=localhost;DATABASE=SAMPLE;PROTOCOL=TCPIP;UID=db2inst1;PWD=secret;", dsn)
	})

	t.Run("optional port and schema are appended", func(t *testing.T) {
		conn := sampleConnection()
		conn["port"] = "50000"
		conn["schema"] = "STAFF"
		dsn, err := DB2{}.DSN(conn)
		require.NoError(t, err)
		assert.Equal(t,
			"HOSTNAME=localhost;DATABASE=SAMPLE;PROTOCOL=TCPIP;UID=db2inst1;PWD=secret;PORT=50000;CURRENTSCHEMA=STAFF;",
			dsn)
	})

	t.Run("missing parameters are all reported", func(t *testing.T) {
		_, err := DB2{}.DSN(handler.ConnectionData{"user": "db2inst1", "database": "SAMPLE"})
		var missing *handler.MissingParamError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, []string{"host", "password"}, missing.Params)
	})
}

func TestMySQLDSN(t *testing.T) {
	t.Run("default port", func(t *testing.T) {
		conn := handler.ConnectionData{"host": "localhost", "user": "root", "password": "secret", "database": "shop"}
		dsn, err := MySQL{}.DSN(conn)
		require.NoError(t, err)
		assert.Equal(t, "root:secret@tcp(localhost:3306)/shop", dsn)
	})

	t.Run("explicit port", func(t *testing.T) {
		conn := handler.ConnectionData{"host": "localhost", "port": "3307", "user": "root", "password": "secret", "database": "shop"}
		dsn, err := MySQL{}.DSN(conn)
		require.NoError(t, err)
		assert.Equal(t, "root:secret@tcp(localhost:3307)/shop", dsn)
	})

	t.Run("missing database", func(t *testing.T) {
		_, err := MySQL{}.DSN(handler.ConnectionData{"host": "localhost", "user": "root", "password": "secret"})
		var missing *handler.MissingParamError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, []string{"database"}, missing.Params)
	})
}

func TestPostgreSQLDSN(t *testing.T) {
	conn := handler.ConnectionData{"host": "localhost", "user": "postgres", "password": "secret", "database": "shop"}
	dsn, err := PostgreSQL{}.DSN(conn)
	require.NoError(t, err)
	assert.Equal(t, "host=localhost user=postgres password=secret dbname=shop sslmode=disable", dsn)

	conn["port"] = "5433"
	dsn, err = PostgreSQL{}.DSN(conn)
	require.NoError(t, err)
	assert.Equal(t, "host=localhost user=postgres password=secret dbname=shop sslmode=disable port=5433", dsn)
}

func TestMSSQLDSN(t *testing.T) {
	conn := handler.ConnectionData{"host": "localhost", "user": "sa", "password": "secret", "database": "shop"}
	dsn, err := MSSQL{}.DSN(conn)
	require.NoError(t, err)
	assert.Equal(t, "server=localhost;user id=sa;password=secret;database=shop;", dsn)

	conn["port"] = "1434"
	dsn, err = MSSQL{}.DSN(conn)
	require.NoError(t, err)
	assert.Equal(t, "server=localhost;user id=sa;password=secret;database=shop;port=1434;", dsn)
}

func TestOracleDSN(t *testing.T) {
	t.Run("builds a driver url", func(t *testing.T) {
		conn := handler.ConnectionData{"host": "localhost", "user": "scott", "password": "tiger", "database": "ORCLPDB1"}
		dsn, err := Oracle{}.DSN(conn)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(dsn, "oracle://"), "dsn: %s", dsn)
		assert.Contains(t, dsn, "localhost")
		assert.Contains(t, dsn, "ORCLPDB1")
	})

	t.Run("invalid port", func(t *testing.T) {
		conn := handler.ConnectionData{"host": "localhost", "port": "abc", "user": "scott", "password": "tiger", "database": "ORCLPDB1"}
		_, err := Oracle{}.DSN(conn)
		assert.Error(t, err)
	})
}

func TestExasolDSN(t *testing.T) {
	t.Run("database is not required", func(t *testing.T) {
		conn := handler.ConnectionData{"host": "localhost", "user": "sys", "password": "exasol"}
		dsn, err := Exasol{}.DSN(conn)
		require.NoError(t, err)
		assert.Contains(t, dsn, "localhost")
	})

	t.Run("missing password", func(t *testing.T) {
		_, err := Exasol{}.DSN(handler.ConnectionData{"host": "localhost", "user": "sys"})
		var missing *handler.MissingParamError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, []string{"password"}, missing.Params)
	})
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, sq.Question, DB2{}.Placeholder())
	assert.Equal(t, sq.Question, MySQL{}.Placeholder())
	assert.Equal(t, sq.Question, Exasol{}.Placeholder())
	assert.Equal(t, sq.Dollar, PostgreSQL{}.Placeholder())
	assert.Equal(t, sq.AtP, MSSQL{}.Placeholder())
	assert.Equal(t, sq.Colon, Oracle{}.Placeholder())
}

func TestCatalogQueries(t *testing.T) {
	t.Run("db2 uppercases identifiers", func(t *testing.T) {
		query, args := DB2{}.TablesQuery("staff")
		assert.Contains(t, query, "SYSCAT.TABLES")
		assert.Equal(t, []any{"STAFF"}, args)

		query, args = DB2{}.ColumnsQuery("employee")
		assert.Contains(t, query, "SYSCAT.COLUMNS")
		assert.Equal(t, []any{"EMPLOYEE"}, args)
	})

	t.Run("mysql keeps identifier case", func(t *testing.T) {
		query, args := MySQL{}.TablesQuery("shop")
		assert.Contains(t, query, "information_schema.tables")
		assert.Equal(t, []any{"shop"}, args)
	})

	t.Run("empty schema uses the connection default", func(t *testing.T) {
		for _, dialect := range []Dialect{DB2{}, MySQL{}, PostgreSQL{}, MSSQL{}, Oracle{}, Exasol{}} {
			_, args := dialect.TablesQuery("")
			assert.Nil(t, args, "dialect %s", dialect.DriverName())
		}
	})
}
