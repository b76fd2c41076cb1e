//go:build ibm_db
// +build ibm_db

package dbms

// Import of the IBM DB2 driver to be used by the database/sql API. The
// driver is cgo and needs the DB2 clidriver libraries at build time,
// hence the build tag.
import _ "github.com/ibmdb/go_ibm_db"
