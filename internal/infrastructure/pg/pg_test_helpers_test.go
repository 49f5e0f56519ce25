package pg_test

import (
	"context"
	"os"
	"testing"
	"time"

	"exchanges-service/internal/infrastructure/pg"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

func withPostgres(t *testing.T) *pg.DB {
	t.Helper()
	if os.Getenv("TESTCONTAINERS") == "" {
		t.Skip("set TESTCONTAINERS=1 to run containerized PG tests")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	t.Cleanup(cancel)

	container, err := postgres.RunContainer(ctx,
		postgres.WithDatabase("exchanges"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := pg.Connect(ctx, dsn, pg.WithPoolSize(4, 1))
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.WaitReady(ctx, time.Minute))
	require.NoError(t, pg.RunMigrations(ctx, db))
	return db
}

// withExternalPostgres connects to DATABASE_URL when it is set.
func withExternalPostgres(t *testing.T) *pg.DB {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set; skipping PG test")
	}
	ctx := context.Background()
	db, err := pg.Connect(ctx, dsn)
	if err != nil {
		t.Skip("pg not available: ", err)
	}
	t.Cleanup(db.Close)
	if err := db.Ping(ctx); err != nil {
		t.Skip("pg not reachable: ", err)
	}
	require.NoError(t, pg.RunMigrations(ctx, db))
	return db
}
