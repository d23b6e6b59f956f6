//go:build database

package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestCoachWithMySQL tests the coach CLI with a MySQL backend.
func TestCoachWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "coach",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
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

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/coach?parseTime=true", host, port.Port())
	runBackendScenario(t, []string{"COACH_BACKEND=mysql", "COACH_DB_CONNECT=" + connStr})
}

// TestCoachWithPostgres tests the coach CLI with a PostgreSQL backend.
func TestCoachWithPostgres(t *testing.T) {
	ctx := context.Background()

	// Start Postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithOccurrence(2).WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()

	// Get connection details
	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres", host, port.Port())
	runBackendScenario(t, []string{"COACH_BACKEND=postgresql", "COACH_DB_CONNECT=" + connStr})
}

// runBackendScenario runs the same command sequence against any SQL backend.
func runBackendScenario(t *testing.T, env []string) {
	env = append(env, "COACH_AS_OF=2024-03-11T12:00:00Z", "COACH_COLOR=no")

	_, err := runCoach(t, env, "db", "clear")
	require.NoError(t, err)

	_, err = runCoach(t, env, "db", "migrate")
	require.NoError(t, err)

	_, err = runCoach(t, env, "records", "import", writeResultsFixture(t))
	require.NoError(t, err)

	out, err := runCoach(t, env, "project", "--deadline", "2024-04-10", "--seed", "7", "--output", "json")
	require.NoError(t, err)
	var projections []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &projections))
	assert.Len(t, projections, 2)

	out, err = runCoach(t, env, "mastery", "show", "--output", "json")
	require.NoError(t, err)
	var estimates []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &estimates))
	assert.Len(t, estimates, 3)

	_, err = runCoach(t, env, "mastery", "reset", "algebra")
	require.NoError(t, err)

	_, err = runCoach(t, env, "recommend")
	require.NoError(t, err)

	out, err = runCoach(t, env, "db", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Total Records: 4")
	assert.Contains(t, out, "Projection Runs: 1")
}
