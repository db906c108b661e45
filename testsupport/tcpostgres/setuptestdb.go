//nolint:errcheck // testsetup
package tcpostgres

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/mpapenbr/openf1-analysis/pkg/db/migrate"
	database "github.com/mpapenbr/openf1-analysis/pkg/db/postgres"
)

// SetupTestDB starts (or reuses) a postgres container, applies the
// migrations and returns the connection URL.
func SetupTestDB() string {
	ctx := context.Background()
	port, err := nat.NewPort("tcp", "5432")
	if err != nil {
		log.Fatal(err)
	}
	container, err := SetupPostgres(ctx,
		WithPort(port.Port()),
		WithInitialDatabase("postgres", "password", "postgres"),
		WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
		WithName("openf1-analysis-test"),
	)
	if err != nil {
		log.Fatal(err)
	}
	containerPort, _ := container.MappedPort(ctx, port)
	host, _ := container.Host(ctx)
	dbURL := fmt.Sprintf("postgresql://postgres:password@%s:%s/postgres",
		host, containerPort.Port())

	if err = migrate.MigrateDB(dbURL); err != nil {
		log.Fatal(err)
	}
	return dbURL
}

// SetupExternalTestDB migrates the database given by TESTDB_URL.
func SetupExternalTestDB() string {
	dbURL := os.Getenv("TESTDB_URL")
	if err := migrate.MigrateDB(dbURL); err != nil {
		log.Fatal(err)
	}
	return dbURL
}

func Connect(dbURL string) *pgxpool.Pool {
	pool, err := database.InitWithURL(context.Background(), dbURL)
	if err != nil {
		log.Fatal(err)
	}
	return pool
}

func ClearStoredTables(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from stored_table")
}

func ClearFetchState(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from fetch_state")
}

func ClearAllTables(pool *pgxpool.Pool) {
	ClearStoredTables(pool)
	ClearFetchState(pool)
}
