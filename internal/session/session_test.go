package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicseva/grievance/internal/common"
)

func TestWriteRead_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	rec := Record{Username: "ravi", PasswordHash: "abcd1234"}

	require.NoError(t, Write(path, rec))

	got, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestWrite_OverwritesPreviousSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	require.NoError(t, Write(path, Record{Username: "first", PasswordHash: "h1"}))
	require.NoError(t, Write(path, Record{Username: "second", PasswordHash: "h2"}))

	got, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, "second", got.Username)
}

func TestRead_EnvFallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.json")
	t.Setenv(EnvUsername, "ravi")
	t.Setenv(EnvPasswordHash, "abcd1234")

	got, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, Record{Username: "ravi", PasswordHash: "abcd1234"}, got)
}

func TestRead_AbsentEverywhere(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.json")
	t.Setenv(EnvUsername, "")
	t.Setenv(EnvPasswordHash, "")

	_, err := Read(path)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestRead_CorruptFileIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := Read(path)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, common.ErrNotFound))
}

func TestReadOrPlaceholder(t *testing.T) {
	t.Setenv(EnvUsername, "")
	t.Setenv(EnvPasswordHash, "")

	got := ReadOrPlaceholder(filepath.Join(t.TempDir(), "absent.json"))
	assert.Equal(t, Record{Username: Placeholder, PasswordHash: Placeholder}, got)
}
