package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vsxregistry/internal/models"
)

func newTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "nested", "plugins.db"), true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestDatabase_UpsertAndGet(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)

	deployed := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	p := &models.Plugin{
		ID:          "redhat.java",
		Publisher:   "redhat",
		Name:        "java",
		DisplayName: "Java",
		Version:     "1.0.0",
		EngineType:  models.EngineTypeVSCode,
		FilePath:    "/tmp/java.vsix",
		SourceURL:   "https://example.com/java.vsix",
		DeployedAt:  deployed,
	}
	require.NoError(t, db.UpsertPlugin(ToPluginDB(p, models.Engines{VSCode: "^1.40.0"})))

	got, err := db.GetPluginByID("redhat.java")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, `{"vscode":"^1.40.0"}`, got.Engines)

	plugin := ToPlugin(got)
	assert.Equal(t, "Java", plugin.DisplayName)
	assert.True(t, deployed.Equal(plugin.DeployedAt))

	p.Version = "1.1.0"
	require.NoError(t, db.UpsertPlugin(ToPluginDB(p, models.Engines{})))
	count, err := db.CountPlugins()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestDatabase_MissingPluginIsNil(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)

	got, err := db.GetPluginByID("nobody.nothing")
	require.NoError(t, err)
	assert.Nil(t, got)

	removed, err := db.DeletePlugin("nobody.nothing")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestDatabase_FilterByEngineType(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)

	now := time.Now().UTC()
	for i, p := range []models.Plugin{
		{ID: "a.one", Publisher: "a", Name: "one", Version: "1", EngineType: models.EngineTypeVSCode, FilePath: "1"},
		{ID: "a.two", Publisher: "a", Name: "two", Version: "1", EngineType: models.EngineTypeTheia, FilePath: "2"},
		{ID: "a.three", Publisher: "a", Name: "three", Version: "1", EngineType: models.EngineTypeVSCode, FilePath: "3"},
	} {
		p.DeployedAt = now.Add(time.Duration(i) * time.Second)
		require.NoError(t, db.UpsertPlugin(ToPluginDB(&p, models.Engines{})))
	}

	all, err := db.GetAllPlugins()
	require.NoError(t, err)
	assert.Len(t, all, 3)

	vscode, err := db.GetPluginsByEngineType(models.EngineTypeVSCode)
	require.NoError(t, err)
	ids := []string{}
	for _, p := range ToPluginSlice(vscode) {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"a.one", "a.three"}, ids)

	removed, err := db.DeletePlugin("a.two")
	require.NoError(t, err)
	assert.True(t, removed)
}
