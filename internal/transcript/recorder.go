// Package transcript persists raw terminal output for later replay.
//
// Output is appended to a zstd-compressed file, one frame per flush.
// Recording is best-effort: a failed write disables the recorder
// instead of failing the interaction that produced the bytes.
package transcript

import (
	"fmt"
	"os"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// Recorder appends raw terminal output to a compressed transcript.
type Recorder struct {
	path string

	mu   sync.Mutex
	f    *os.File
	enc  *zstd.Encoder
	dead bool
}

// NewRecorder opens the transcript file for appending, creating it if
// needed. Appending to an existing transcript starts a new compression
// frame; readers decode the frames back to one continuous stream.
func NewRecorder(path string) (*Recorder, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open transcript: %w", err)
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create transcript encoder: %w", err)
	}
	return &Recorder{path: path, f: f, enc: enc}, nil
}

// Path returns the transcript file path.
func (r *Recorder) Path() string {
	return r.path
}

// Record appends one chunk of raw output. The first failed write
// disables the recorder.
func (r *Recorder) Record(p []byte) {
	if r == nil || len(p) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.dead {
		return
	}
	if _, err := r.enc.Write(p); err != nil {
		r.dead = true
	}
}

// Flush forces buffered output to disk without closing the stream.
func (r *Recorder) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.dead {
		return nil
	}
	return r.enc.Flush()
}

// Close flushes and closes the transcript.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	encErr := r.enc.Close()
	fileErr := r.f.Close()
	r.dead = true
	if encErr != nil {
		return encErr
	}
	return fileErr
}
