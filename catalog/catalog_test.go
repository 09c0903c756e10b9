package catalog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSetAndFind(t *testing.T) {
	db := newTestDB(t)

	e := Entry{
		Path:   "/images/a.pgm",
		Magic:  "P2",
		Width:  2,
		Height: 3,
		MaxVal: 255,
		SHA1:   "DA39A3EE",
	}
	require.NoError(t, db.Set(e))

	got, err := db.FindByPath(e.Path)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, e, *got)

	got, err = db.FindByPath("/images/missing.pgm")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSetReplaces(t *testing.T) {
	db := newTestDB(t)

	e := Entry{Path: "/images/a.pgm", Magic: "P2", Width: 1, Height: 1, MaxVal: 255, SHA1: "AA"}
	require.NoError(t, db.Set(e))

	e.Width, e.SHA1 = 4, "BB"
	require.NoError(t, db.Set(e))

	n, err := db.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := db.FindByPath(e.Path)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 4, got.Width)
	assert.Equal(t, "BB", got.SHA1)
}

func TestFindBySHA1(t *testing.T) {
	db := newTestDB(t)

	for _, path := range []string{"/b.pbm", "/a.pbm"} {
		require.NoError(t, db.Set(Entry{Path: path, Magic: "P1", Width: 1, Height: 1, MaxVal: 1, SHA1: "CC"}))
	}
	require.NoError(t, db.Set(Entry{Path: "/c.pbm", Magic: "P1", Width: 1, Height: 1, MaxVal: 1, SHA1: "DD"}))

	paths, err := db.FindBySHA1("CC")
	require.NoError(t, err)
	assert.Equal(t, []string{"/a.pbm", "/b.pbm"}, paths)
}
