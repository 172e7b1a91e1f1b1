// pattern: Imperative Shell

package logging

import (
	"io"
	"sync"

	"github.com/gofrs/flock"
)

// lockedWriter serializes writes across processes sharing one log file.
// A fan-out run starts one copy of the tool per project and all of them
// append to the same rotating file.
type lockedWriter struct {
	mu   sync.Mutex
	lock *flock.Flock
	out  io.WriteCloser
}

func newLockedWriter(lockPath string, out io.WriteCloser) *lockedWriter {
	return &lockedWriter{lock: flock.New(lockPath), out: out}
}

// Write holds the file lock for the duration of a single entry. If the lock
// cannot be taken the entry is written unlocked.
func (w *lockedWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.lock.Lock(); err == nil {
		defer func() { _ = w.lock.Unlock() }()
	}
	return w.out.Write(p)
}

func (w *lockedWriter) Sync() error {
	return nil
}

func (w *lockedWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.lock.Close()
	return w.out.Close()
}
