package migration

import (
	"errors"
	"io"
	"io/fs"
	"strings"
	"testing"

	"clinic-scheduler/migrations"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations_HaveUpAndDown(t *testing.T) {
	src, err := iofs.New(migrations.FS, ".")
	require.NoError(t, err)
	defer src.Close()

	version, err := src.First()
	require.NoError(t, err)

	for {
		up, _, err := src.ReadUp(version)
		require.NoError(t, err, "version %d has no up migration", version)
		body, err := io.ReadAll(up)
		require.NoError(t, err)
		up.Close()
		assert.NotEmpty(t, strings.TrimSpace(string(body)))

		down, _, err := src.ReadDown(version)
		require.NoError(t, err, "version %d has no down migration", version)
		down.Close()

		version, err = src.Next(version)
		if errors.Is(err, fs.ErrNotExist) {
			break
		}
		require.NoError(t, err)
	}
}

func TestInitMigration_DeclaresUniqueIndexes(t *testing.T) {
	body, err := fs.ReadFile(migrations.FS, "000001_init.up.sql")
	require.NoError(t, err)
	sql := string(body)

	// Duplicate detection matches on these constraint names
	for _, index := range []string{
		"idx_persons_document_number",
		"idx_persons_email",
		"idx_professional_profiles_messaging_handle",
		"idx_service_providers_pair",
		"idx_conversation_states_handle",
		"idx_api_keys_prefix",
	} {
		assert.Contains(t, sql, "CREATE UNIQUE INDEX "+index, index)
	}
}
