package testdb

import (
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	tcpg "github.com/mpapenbr/openf1-analysis/testsupport/tcpostgres"
)

// InitTestDB returns a pool to an empty, migrated database. TESTDB_URL
// selects an external database instead of a container.
func InitTestDB() *pgxpool.Pool {
	var dbURL string
	if os.Getenv("TESTDB_URL") != "" {
		dbURL = tcpg.SetupExternalTestDB()
	} else {
		dbURL = tcpg.SetupTestDB()
	}
	pool := tcpg.Connect(dbURL)
	tcpg.ClearAllTables(pool)
	return pool
}
