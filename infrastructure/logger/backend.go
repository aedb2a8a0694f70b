package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/jrick/logrotate/rotator"
	"github.com/pkg/errors"
)

// normalLogSize is the initial capacity of the buffers log lines are
// formatted into.
const normalLogSize = 512

// Flags to modify Backend's behavior.
const (
	// LogFlagLongFile adds the full path and line number of the logging
	// callsite, e.g. /a/b/c/main.go:123.
	LogFlagLongFile uint32 = 1 << iota

	// LogFlagShortFile adds the file name and line number of the logging
	// callsite, e.g. main.go:123. Takes precedence over LogFlagLongFile.
	LogFlagShortFile
)

var logFlagsByName = map[string]uint32{
	"longfile":  LogFlagLongFile,
	"shortfile": LogFlagShortFile,
}

// defaultFlags is read from the comma separated LOGFLAGS environment
// variable. It is a variable initializer rather than init() because
// BackendLog is initialized from it.
var defaultFlags = parseLogFlags(os.Getenv("LOGFLAGS"))

func parseLogFlags(logFlags string) (flags uint32) {
	for _, name := range strings.Split(logFlags, ",") {
		flags |= logFlagsByName[strings.TrimSpace(name)]
	}
	return flags
}

// Rotation settings of log files added with AddLogFile.
const (
	defaultThresholdKB = 32 * 1000 // 32 MB
	defaultMaxRolls    = 4
)

type logWriter struct {
	io.WriteCloser
	logLevel Level
}

// Backend is a logging backend. Subsystems created from the backend write to
// the backend's writers through a single goroutine, so lines of different
// subsystems never interleave.
type Backend struct {
	flag      uint32
	isRunning uint32
	writers   []logWriter
	writeChan chan logEntry

	// done is held by the writing goroutine until writeChan is drained
	done      sync.Mutex
	closeOnce sync.Once
}

// NewBackendWithFlags creates a Backend that uses the given flags instead of
// the ones taken from the LOGFLAGS environment variable.
func NewBackendWithFlags(flags uint32) *Backend {
	return &Backend{flag: flags, writeChan: make(chan logEntry)}
}

// NewBackend creates a new logger backend.
func NewBackend() *Backend {
	return NewBackendWithFlags(defaultFlags)
}

// AddLogFile adds a rotated log file that receives every message of logLevel
// and above. Missing directories are created.
func (b *Backend) AddLogFile(logFile string, logLevel Level) error {
	return b.AddLogFileWithCustomRotator(logFile, logLevel, defaultThresholdKB, defaultMaxRolls)
}

// AddLogFileWithCustomRotator is AddLogFile with explicit rotation settings.
func (b *Backend) AddLogFileWithCustomRotator(logFile string, logLevel Level, thresholdKB int64, maxRolls int) error {
	if b.IsRunning() {
		return errors.New("the logger is already running")
	}
	if logDir := filepath.Dir(logFile); logDir != "." {
		err := os.MkdirAll(logDir, 0700)
		if err != nil {
			return errors.Wrapf(err, "failed to create log directory %s", logDir)
		}
	}
	logRotator, err := rotator.New(logFile, thresholdKB, false, maxRolls)
	if err != nil {
		return errors.Wrapf(err, "failed to create file rotator for %s", logFile)
	}
	b.writers = append(b.writers, logWriter{WriteCloser: logRotator, logLevel: logLevel})
	return nil
}

// AddLogWriter adds a writer that receives every message of logLevel and
// above. The writer is closed when the backend is closed.
func (b *Backend) AddLogWriter(writer io.WriteCloser, logLevel Level) error {
	if b.IsRunning() {
		return errors.New("the logger is already running")
	}
	b.writers = append(b.writers, logWriter{WriteCloser: writer, logLevel: logLevel})
	return nil
}

// Run starts writing log entries in a separate goroutine. Writers can no
// longer be added afterwards.
func (b *Backend) Run() error {
	if !atomic.CompareAndSwapUint32(&b.isRunning, 0, 1) {
		return errors.New("the logger is already running")
	}
	b.done.Lock()
	go func() {
		defer b.done.Unlock()
		defer func() {
			if err := recover(); err != nil {
				_, _ = fmt.Fprintf(os.Stderr, "Fatal error in logger.Backend goroutine: %+v\n", err)
				_, _ = fmt.Fprintf(os.Stderr, "Goroutine stacktrace: %s\n", debug.Stack())
			}
		}()
		b.writeEntries()
	}()
	return nil
}

func (b *Backend) writeEntries() {
	for entry := range b.writeChan {
		for _, writer := range b.writers {
			if entry.level >= writer.logLevel {
				_, _ = writer.Write(entry.log)
			}
		}
	}
}

// IsRunning returns whether Run was called and the backend was not closed yet.
func (b *Backend) IsRunning() bool {
	return atomic.LoadUint32(&b.isRunning) != 0
}

// Close waits for pending entries to be written and closes all writers.
// Calling it more than once has no effect.
func (b *Backend) Close() {
	b.closeOnce.Do(func() {
		close(b.writeChan)
		b.done.Lock()
		defer b.done.Unlock()
		atomic.StoreUint32(&b.isRunning, 0)
		for _, writer := range b.writers {
			_ = writer.Close()
		}
	})
}

// Logger returns a new logger for the given subsystem tag. It writes
// nothing until its level is set with SetLevel.
func (b *Backend) Logger(subsystemTag string) *Logger {
	return &Logger{LevelOff, subsystemTag, b, b.writeChan}
}
