package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskPutThenGetRoundTrips(t *testing.T) {
	dir := t.TempDir()
	d := NewDisk(dir, 0)

	require.NoError(t, d.Put("k", []byte("hello")))

	v, ok, err := d.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("hello"), v)
}

func TestDiskGetMissesOnAbsentFile(t *testing.T) {
	dir := t.TempDir()
	d := NewDisk(dir, 0)

	_, ok, err := d.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDiskGetAfterTTLExpiryIsMiss(t *testing.T) {
	dir := t.TempDir()
	d := NewDisk(dir, time.Second)
	clock := time.Now()
	d.now = func() time.Time { return clock }

	require.NoError(t, d.Put("k", []byte("hello")))

	clock = clock.Add(2 * time.Second)
	_, ok, err := d.Get("k")
	require.NoError(t, err)
	assert.False(t, ok)
}

// TestDiskPartialTmpFileNeverObservableUnderFinalName simulates the crash
// window seed scenario (5): a ".tmp" file exists but the rename into its
// final name never happened. Get must report a miss; the ".tmp" file is
// never mistaken for the canonical entry.
func TestDiskPartialTmpFileNeverObservableUnderFinalName(t *testing.T) {
	dir := t.TempDir()
	d := NewDisk(dir, 0)

	tmpPath := d.pathFor("k") + ".tmp"
	require.NoError(t, os.WriteFile(tmpPath, []byte("hello"), 0o644))

	_, ok, err := d.Get("k")
	require.NoError(t, err)
	assert.False(t, ok)

	// The .tmp file is still there (crash-simulated: no cleanup ran), but
	// it is not visible under the canonical path.
	_, statErr := os.Stat(filepath.Join(dir, filepath.Base(d.pathFor("k"))))
	assert.True(t, os.IsNotExist(statErr))
}
