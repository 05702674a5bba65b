package logging

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

func TestConsoleLogger_Verbose_WhenEnabled(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLoggerTo(&buf, true)
	logger.Verbose("test message: %s", "value")

	expected := "[VERBOSE] test message: value\n"
	if buf.String() != expected {
		t.Errorf("Expected %q, got %q", expected, buf.String())
	}
}

func TestConsoleLogger_Verbose_WhenDisabled(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLoggerTo(&buf, false)
	logger.Verbose("should not appear")

	if buf.Len() != 0 {
		t.Errorf("Expected no output, got %q", buf.String())
	}
}

func TestConsoleLogger_Info(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLoggerTo(&buf, false)
	logger.Info("plain %d", 42)

	if buf.String() != "plain 42\n" {
		t.Errorf("Expected %q, got %q", "plain 42\n", buf.String())
	}
}

func TestConsoleLogger_Error(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLoggerTo(&buf, false)
	logger.Error("boom")

	if buf.String() != "[ERROR] boom\n" {
		t.Errorf("Expected %q, got %q", "[ERROR] boom\n", buf.String())
	}
}

func TestConsoleLogger_ConcurrentWrites(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLoggerTo(&buf, true)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.Info("line")
		}()
	}
	wg.Wait()

	lines := strings.Count(buf.String(), "\n")
	if lines != 20 {
		t.Errorf("Expected 20 lines, got %d", lines)
	}
}
