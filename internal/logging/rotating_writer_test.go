package logging

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWriter(t *testing.T, maxBytes int64, now *time.Time) *RotatingWriter {
	t.Helper()
	w := &RotatingWriter{
		BasePath: filepath.Join(t.TempDir(), "usage.log"),
		MaxBytes: maxBytes,
		clock:    func() time.Time { return *now },
	}
	require.NoError(t, w.rotate(0))
	t.Cleanup(func() { _ = w.Close() })
	return w
}

func TestRotatingWriterRollsOverOnSize(t *testing.T) {
	now := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	w := newTestWriter(t, 10, &now)
	dir := filepath.Dir(w.BasePath)

	_, err := w.Write([]byte("0123456789"))
	require.NoError(t, err)
	_, err = w.Write([]byte("abc"))
	require.NoError(t, err)

	first, err := os.ReadFile(filepath.Join(dir, "usage-2026-10-16.log"))
	require.NoError(t, err)
	assert.Equal(t, "0123456789", string(first))

	second, err := os.ReadFile(filepath.Join(dir, "usage-2026-10-16.2.log"))
	require.NoError(t, err)
	assert.Equal(t, "abc", string(second))
}

func TestRotatingWriterRollsOverOnDay(t *testing.T) {
	now := time.Date(2026, 10, 16, 23, 59, 0, 0, time.UTC)
	w := newTestWriter(t, 0, &now)
	dir := filepath.Dir(w.BasePath)

	_, err := w.Write([]byte("late\n"))
	require.NoError(t, err)
	now = now.Add(2 * time.Minute)
	_, err = w.Write([]byte("early\n"))
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, "usage-2026-10-16.log"))
	next, err := os.ReadFile(filepath.Join(dir, "usage-2026-10-17.log"))
	require.NoError(t, err)
	assert.Equal(t, "early\n", string(next))
}

func TestRotatingWriterConcurrentWrites(t *testing.T) {
	now := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	w := newTestWriter(t, 0, &now)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = w.Write([]byte("0123456789\n"))
		}()
	}
	wg.Wait()

	data, err := os.ReadFile(filepath.Join(filepath.Dir(w.BasePath), "usage-2026-10-16.log"))
	require.NoError(t, err)
	assert.Len(t, data, 50*11)
}

func TestNewRotatingWriterDash(t *testing.T) {
	w, err := NewRotatingWriter("-", 0)
	require.NoError(t, err)
	n, err := w.Write([]byte("dropped"))
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.NoError(t, w.Close())
}

func TestRotatingWriterResumesNewestFileAfterRestart(t *testing.T) {
	now := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "usage-2026-10-16.log"), []byte("0123456789"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "usage-2026-10-16.2.log"), []byte("0123456789"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "usage-2026-10-16.3.log"), []byte("01234"), 0o644))

	w := &RotatingWriter{
		BasePath: filepath.Join(dir, "usage.log"),
		MaxBytes: 10,
		clock:    func() time.Time { return now },
	}
	require.NoError(t, w.rotate(0))
	t.Cleanup(func() { _ = w.Close() })

	assert.Equal(t, 3, w.seq)
	_, err := w.Write([]byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, 3, w.seq)

	third, err := os.ReadFile(filepath.Join(dir, "usage-2026-10-16.3.log"))
	require.NoError(t, err)
	assert.Equal(t, "01234abc", string(third))

	second, err := os.ReadFile(filepath.Join(dir, "usage-2026-10-16.2.log"))
	require.NoError(t, err)
	assert.Equal(t, "0123456789", string(second))

	_, err = w.Write([]byte("defg"))
	require.NoError(t, err)
	assert.Equal(t, 4, w.seq)
	assert.FileExists(t, filepath.Join(dir, "usage-2026-10-16.4.log"))
}
