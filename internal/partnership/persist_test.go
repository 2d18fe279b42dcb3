package partnership

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partnerplane/internal/partner"
)

func TestBackupName(t *testing.T) {
	assert.Equal(t, "/etc/p.xml.0000000", BackupName("/etc/p.xml", 0))
	assert.Equal(t, "/etc/p.xml.0000042", BackupName("/etc/p.xml", 42))
	assert.Equal(t, "/etc/p.xml.1234567", BackupName("/etc/p.xml", 1234567))
}

func TestRotateBackup_MissingFileIsNotAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partnerships.xml")

	backup, err := rotateBackup(path)
	require.NoError(t, err)
	assert.Empty(t, backup)
}

func TestRotateBackup_SkipsUsedSlots(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "partnerships.xml")
	writeTestFile(t, path, "current")
	writeTestFile(t, BackupName(path, 0), "old0")
	writeTestFile(t, BackupName(path, 1), "old1")

	backup, err := rotateBackup(path)
	require.NoError(t, err)
	assert.Equal(t, BackupName(path, 2), backup)

	data, err := os.ReadFile(backup)
	require.NoError(t, err)
	assert.Equal(t, "current", string(data))
	assert.NoFileExists(t, path)
}

func TestStoreSave_NBackups(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "partnerships.xml")
	writeTestFile(t, path, sampleXML)

	s := newTestStore(t, Config{Filename: path})
	require.NoError(t, s.Init(context.Background()))

	const saves = 4
	var contents []string
	for i := 0; i < saves; i++ {
		before, err := os.ReadFile(path)
		require.NoError(t, err)
		contents = append(contents, string(before))

		require.NoError(t, s.AddPartner("extra"+string(rune('a'+i)), partner.Attributes{}))
		require.NoError(t, s.Save(context.Background()))
	}

	for i := 0; i < saves; i++ {
		data, err := os.ReadFile(BackupName(path, i))
		require.NoError(t, err, "backup %d", i)
		assert.Equal(t, contents[i], string(data), "backup %d holds the previous content", i)
	}
	assert.NoFileExists(t, BackupName(path, saves))

	reloaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"acme", "globex", "extraa", "extrab", "extrac", "extrad"}, reloaded.Partners.Names())
}

func TestStoreSave_NoExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partnerships.xml")
	s := newTestStore(t, Config{Filename: path})

	require.NoError(t, s.AddPartner("a", partner.NewAttributes("as2_id", "A")))
	require.NoError(t, s.Save(context.Background()))

	assert.FileExists(t, path)
	assert.NoFileExists(t, BackupName(path, 0))

	matches, err := filepath.Glob(path + ".tmp.*")
	require.NoError(t, err)
	assert.Empty(t, matches, "temporary files are renamed away")
}

func TestStoreSave_WriteFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "partnerships.xml")
	s := newTestStore(t, Config{Filename: path})

	err := s.Save(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIO))
	assert.Contains(t, err.Error(), path)
}
