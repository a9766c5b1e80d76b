//go:build database

package integration

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDebtsessionWithMySQL tests the debtsession CLI with a MySQL backend.
func TestDebtsessionWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306:3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "debtsession",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(30 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	// Get connection details
	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/debtsession?parseTime=true", host, port.Port())
	runWorkflowAgainstBackend(t, "mysql", connStr)
}

// TestDebtsessionWithPostgres tests the debtsession CLI with a PostgreSQL backend.
func TestDebtsessionWithPostgres(t *testing.T) {
	ctx := context.Background()

	// Start Postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432:5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithStartupTimeout(30 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()
	time.Sleep(5 * time.Second)

	// Get connection details
	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres", host, port.Port())
	runWorkflowAgainstBackend(t, "postgresql", connStr)
}

// runWorkflowAgainstBackend drives the session workflow through a database backend.
func runWorkflowAgainstBackend(t *testing.T, backend, connStr string) {
	// Set environment variables
	_ = os.Setenv("DEBTSESSION_STORE_BACKEND", backend)
	_ = os.Setenv("DEBTSESSION_STORE_DB_CONNECT", connStr)
	defer func() { _ = os.Unsetenv("DEBTSESSION_STORE_BACKEND") }()
	defer func() { _ = os.Unsetenv("DEBTSESSION_STORE_DB_CONNECT") }()

	// Start from an empty store
	err := runDebtsessionCommand(t, "session", "clear")
	require.NoError(t, err)

	// Start a session and triage the project itself
	err = runDebtsessionCommand(t, "new", "--capacity", "20")
	require.NoError(t, err)
	err = runDebtsessionCommand(t, "triage", "--top-n", "5")
	require.NoError(t, err)

	// Pause and resume losslessly
	err = runDebtsessionCommand(t, "checkpoint")
	require.NoError(t, err)
	err = runDebtsessionCommand(t, "resume")
	require.NoError(t, err)

	// Inspect state and store health
	err = runDebtsessionCommand(t, "status")
	require.NoError(t, err)
	err = runDebtsessionCommand(t, "session", "list")
	require.NoError(t, err)
	err = runDebtsessionCommand(t, "session", "status")
	require.NoError(t, err)
}
