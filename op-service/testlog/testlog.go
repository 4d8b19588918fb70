// Package testlog provides a log handler for unit tests.
package testlog

import (
	"bytes"
	"log/slog"
	"os"
	"sync"

	"github.com/ethereum/go-ethereum/log"

	oplog "github.com/mantlenetworkio/faucet-devnet/op-service/log"
)

var useColorInTestLog = true

func init() {
	if os.Getenv("OP_TESTLOG_DISABLE_COLOR") == "true" {
		useColorInTestLog = false
	}
}

// Testing interface to log to. Standard Go testing.TB implements this.
type Testing interface {
	Logf(format string, args ...any)
	Helper()
	Name() string
	Cleanup(func())
}

// testWriter forwards each written log record to t.Logf.
// Records written after the test completed are dropped, since t.Logf panics at that point.
type testWriter struct {
	t    Testing
	mu   sync.Mutex
	done bool
}

func (w *testWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.done {
		return len(p), nil
	}
	w.t.Helper()
	w.t.Logf("%s", bytes.TrimRight(p, "\n"))
	return len(p), nil
}

func (w *testWriter) close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.done = true
}

// Logger returns a logger which logs to the unit test log of t.
// The level of the logger can be changed through the op-service/log LvlSetter of its handler.
func Logger(t Testing, level slog.Level) log.Logger {
	w := &testWriter{t: t}
	t.Cleanup(w.close)
	h := log.NewTerminalHandlerWithLevel(w, log.LevelTrace, useColorInTestLog)
	return log.NewLogger(oplog.NewDynamicLogHandler(level, h))
}
