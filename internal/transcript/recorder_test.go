package transcript

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readTranscript(t *testing.T, path string) string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	dec, err := zstd.NewReader(f)
	require.NoError(t, err)
	defer dec.Close()

	data, err := io.ReadAll(dec)
	require.NoError(t, err)
	return string(data)
}

func TestRecorderRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.zst")

	rec, err := NewRecorder(path)
	require.NoError(t, err)
	assert.Equal(t, path, rec.Path())

	rec.Record([]byte("first chunk\n"))
	rec.Record([]byte("second chunk\n"))
	rec.Record(nil)
	require.NoError(t, rec.Close())

	assert.Equal(t, "first chunk\nsecond chunk\n", readTranscript(t, path))
}

func TestRecorderAppendsAcrossReopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.zst")

	rec, err := NewRecorder(path)
	require.NoError(t, err)
	rec.Record([]byte("run one\n"))
	require.NoError(t, rec.Close())

	rec, err = NewRecorder(path)
	require.NoError(t, err)
	rec.Record([]byte("run two\n"))
	require.NoError(t, rec.Close())

	assert.Equal(t, "run one\nrun two\n", readTranscript(t, path))
}

func TestRecorderFlushWritesToDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.zst")

	rec, err := NewRecorder(path)
	require.NoError(t, err)
	defer rec.Close()

	rec.Record([]byte("live data"))
	require.NoError(t, rec.Flush())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestRecorderBadPath(t *testing.T) {
	_, err := NewRecorder(filepath.Join(t.TempDir(), "missing", "dir", "x.zst"))
	assert.Error(t, err)
}

func TestRecorderNilReceiver(t *testing.T) {
	var rec *Recorder
	rec.Record([]byte("ignored"))
}
