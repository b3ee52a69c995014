package migration

import (
	"testing"

	"github.com/smallbiznis/fluxcrm/pkg/db"
	"github.com/stretchr/testify/require"
)

func TestApplyAutoMigratesNonPostgres(t *testing.T) {
	conn, err := db.NewTest()
	require.NoError(t, err)

	require.NoError(t, Apply(conn, db.TypeSQLite))

	for _, table := range []string{
		"users", "organization_types", "lead_stages", "organizations", "leads",
		"lead_sequences", "milestones", "documents", "lead_notes",
		"sales_flow_steps", "indian_states",
	} {
		require.True(t, conn.Migrator().HasTable(table), table)
	}

	// second run is a no-op
	require.NoError(t, Apply(conn, db.TypeSQLite))
}

func TestApplyRequiresHandle(t *testing.T) {
	require.Error(t, Apply(nil, db.TypeSQLite))
	require.Error(t, RunMigrations(nil))
}

func TestEmbeddedMigrationsPresent(t *testing.T) {
	up, err := embeddedMigrations.ReadFile("migrations/000001_init.up.sql")
	require.NoError(t, err)
	require.Contains(t, string(up), "CREATE TABLE IF NOT EXISTS leads")

	down, err := embeddedMigrations.ReadFile("migrations/000001_init.down.sql")
	require.NoError(t, err)
	require.Contains(t, string(down), "DROP TABLE IF EXISTS leads")
}
