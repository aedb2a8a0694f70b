package logger

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

type bufferWriteCloser struct {
	sync.Mutex
	bytes.Buffer
	closed bool
}

func (b *bufferWriteCloser) Write(p []byte) (int, error) {
	b.Lock()
	defer b.Unlock()
	return b.Buffer.Write(p)
}

func (b *bufferWriteCloser) Close() error {
	b.Lock()
	defer b.Unlock()
	b.closed = true
	return nil
}

func TestBackendFiltersByWriterLevel(t *testing.T) {
	backend := NewBackendWithFlags(0)
	allWriter := &bufferWriteCloser{}
	warnWriter := &bufferWriteCloser{}
	err := backend.AddLogWriter(allWriter, LevelTrace)
	if err != nil {
		t.Fatalf("TestBackendFiltersByWriterLevel: AddLogWriter unexpectedly failed: %s", err)
	}
	err = backend.AddLogWriter(warnWriter, LevelWarn)
	if err != nil {
		t.Fatalf("TestBackendFiltersByWriterLevel: AddLogWriter unexpectedly failed: %s", err)
	}
	err = backend.Run()
	if err != nil {
		t.Fatalf("TestBackendFiltersByWriterLevel: Run unexpectedly failed: %s", err)
	}

	log := backend.Logger("TEST")
	log.SetLevel(LevelDebug)
	log.Tracef("filtered by the logger %d", 0)
	log.Debugf("debug line %d", 1)
	log.Warnf("warn line %d", 2)
	backend.Close()

	if !allWriter.closed || !warnWriter.closed {
		t.Fatalf("TestBackendFiltersByWriterLevel: writers were not closed")
	}
	allOutput := allWriter.String()
	if strings.Contains(allOutput, "filtered by the logger") {
		t.Fatalf("TestBackendFiltersByWriterLevel: trace line unexpectedly written: %s", allOutput)
	}
	if !strings.Contains(allOutput, "[DBG] TEST: debug line 1") ||
		!strings.Contains(allOutput, "[WRN] TEST: warn line 2") {
		t.Fatalf("TestBackendFiltersByWriterLevel: unexpected output: %s", allOutput)
	}
	warnOutput := warnWriter.String()
	if strings.Contains(warnOutput, "debug line") || !strings.Contains(warnOutput, "warn line 2") {
		t.Fatalf("TestBackendFiltersByWriterLevel: unexpected warn output: %s", warnOutput)
	}
}

func TestAddLogWriterAfterRun(t *testing.T) {
	backend := NewBackend()
	err := backend.Run()
	if err != nil {
		t.Fatalf("TestAddLogWriterAfterRun: Run unexpectedly failed: %s", err)
	}
	defer backend.Close()

	err = backend.AddLogWriter(&bufferWriteCloser{}, LevelInfo)
	if err == nil {
		t.Fatalf("TestAddLogWriterAfterRun: AddLogWriter unexpectedly succeeded")
	}
	err = backend.Run()
	if err == nil {
		t.Fatalf("TestAddLogWriterAfterRun: second Run unexpectedly succeeded")
	}
}

func TestParseAndSetLogLevels(t *testing.T) {
	first := RegisterSubSystem("TST1")
	second := RegisterSubSystem("TST2")
	if RegisterSubSystem("TST1") != first {
		t.Fatalf("TestParseAndSetLogLevels: RegisterSubSystem returned a new logger for an existing tag")
	}

	err := ParseAndSetLogLevels("debug")
	if err != nil {
		t.Fatalf("TestParseAndSetLogLevels: ParseAndSetLogLevels unexpectedly failed: %s", err)
	}
	if first.Level() != LevelDebug || second.Level() != LevelDebug {
		t.Fatalf("TestParseAndSetLogLevels: levels were not set for every subsystem")
	}

	err = ParseAndSetLogLevels("TST1=warn,TST2=trace")
	if err != nil {
		t.Fatalf("TestParseAndSetLogLevels: ParseAndSetLogLevels unexpectedly failed: %s", err)
	}
	if first.Level() != LevelWarn || second.Level() != LevelTrace {
		t.Fatalf("TestParseAndSetLogLevels: unexpected levels %s, %s", first.Level(), second.Level())
	}

	tests := []string{"loud", "TST1=loud", "NOPE=debug", "TST1"}
	for _, debugLevel := range tests {
		err := ParseAndSetLogLevels(debugLevel)
		if err == nil {
			t.Fatalf("TestParseAndSetLogLevels: ParseAndSetLogLevels(%s) unexpectedly succeeded", debugLevel)
		}
	}
}

func TestCloseTwice(t *testing.T) {
	backend := NewBackendWithFlags(0)
	writer := &bufferWriteCloser{}
	err := backend.AddLogWriter(writer, LevelInfo)
	if err != nil {
		t.Fatalf("TestCloseTwice: AddLogWriter unexpectedly failed: %s", err)
	}
	err = backend.Run()
	if err != nil {
		t.Fatalf("TestCloseTwice: Run unexpectedly failed: %s", err)
	}

	log := backend.Logger("TEST")
	log.SetLevel(LevelInfo)
	log.Infof("before close")
	backend.Close()
	backend.Close()
	log.Infof("after close")

	if backend.IsRunning() {
		t.Fatalf("TestCloseTwice: backend is still running after Close")
	}
	output := writer.String()
	if !strings.Contains(output, "before close") || strings.Contains(output, "after close") {
		t.Fatalf("TestCloseTwice: unexpected output: %s", output)
	}
}

func TestLevelFromString(t *testing.T) {
	tests := []struct {
		name          string
		expectedLevel Level
		expectedOK    bool
	}{
		{"trace", LevelTrace, true},
		{"DBG", LevelDebug, true},
		{"Warn", LevelWarn, true},
		{"critical", LevelCritical, true},
		{"off", LevelOff, true},
		{"verbose", LevelInfo, false},
	}
	for _, test := range tests {
		level, ok := LevelFromString(test.name)
		if level != test.expectedLevel || ok != test.expectedOK {
			t.Fatalf("TestLevelFromString: LevelFromString(%s) = (%s, %t), want (%s, %t)",
				test.name, level, ok, test.expectedLevel, test.expectedOK)
		}
	}
	if Level(100).String() != "OFF" {
		t.Fatalf("TestLevelFromString: unexpected tag for an out of range level: %s", Level(100))
	}
}

func TestParseLogFlags(t *testing.T) {
	if flags := parseLogFlags(""); flags != 0 {
		t.Fatalf("TestParseLogFlags: unexpected flags for an empty value: %d", flags)
	}
	if flags := parseLogFlags("shortfile, longfile,unknown"); flags != LogFlagShortFile|LogFlagLongFile {
		t.Fatalf("TestParseLogFlags: unexpected flags: %d", flags)
	}
}

func TestRecycledBufferIsEmpty(t *testing.T) {
	buf := buffer()
	if buf.Cap() < normalLogSize {
		t.Fatalf("TestRecycledBufferIsEmpty: buffer capacity %d is below %d", buf.Cap(), normalLogSize)
	}
	buf.WriteString("a log line")
	recycleBuffer(buf)

	buf = buffer()
	defer recycleBuffer(buf)
	if buf.Len() != 0 {
		t.Fatalf("TestRecycledBufferIsEmpty: a pooled buffer kept %d bytes", buf.Len())
	}
}
