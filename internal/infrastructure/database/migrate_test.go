package database

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	source, err := iofs.New(migrationFiles, "migrations")
	require.NoError(t, err)
	defer source.Close()

	first, err := source.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)

	up, err := fs.ReadFile(migrationFiles, "migrations/000001_init_schema.up.sql")
	require.NoError(t, err)
	schema := string(up)

	assert.Contains(t, schema, "CONSTRAINT appointments_no_overlap EXCLUDE USING gist")
	assert.Contains(t, schema, "int4range(start_minute, start_minute + duration_minutes) WITH &&")
	assert.True(t, strings.Contains(schema, "WHERE (status NOT IN ('cancelled', 'no_show'))"))
	assert.Contains(t, schema, "idx_availability_dentist_date")
}
