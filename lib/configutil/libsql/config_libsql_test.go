package configlibsql

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "exports.db")
	db, err := Struct{File: path}.OpenDB()
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec("create table t (x integer)")
	require.NoError(t, err)
	require.FileExists(t, path)
}

func TestOpenWithoutTarget(t *testing.T) {
	require.True(t, Struct{}.IsZero())
	_, err := Struct{}.OpenDB()
	require.ErrorIs(t, err, errNoDatabase)
}
