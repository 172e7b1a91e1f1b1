// pattern: Imperative Shell

package logging

import (
	"encoding/json"
	"testing"
	"time"
)

func TestChannelSink_Write(t *testing.T) {
	sink := NewChannelSink(10)
	defer sink.Close()

	entry := map[string]any{
		"level":  "info",
		"ts":     time.Now().Unix(),
		"logger":     "config",
		"msg":        "ignoring config",
		"invocation": "abc",
	}
	data, _ := json.Marshal(entry)
	data = append(data, '\n')

	n, err := sink.Write(data)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if n != len(data) {
		t.Errorf("Write() = %d, want %d", n, len(data))
	}

	// Read from channel
	select {
	case got := <-sink.Entries():
		if got.Message != "ignoring config" {
			t.Errorf("Message = %q, want %q", got.Message, "ignoring config")
		}
		if got.Scope != "config" {
			t.Errorf("Scope = %q, want %q", got.Scope, "config")
		}
		if got.Fields["invocation"] != "abc" {
			t.Errorf("Fields[invocation] = %v, want abc", got.Fields["invocation"])
		}
		if got.Level != "INFO" {
			t.Errorf("Level = %q, want %q", got.Level, "INFO")
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timeout waiting for log entry")
	}
}

func TestChannelSink_NonBlocking(t *testing.T) {
	// Create sink with buffer size 2
	sink := NewChannelSink(2)
	defer sink.Close()

	entry := map[string]any{"level": "info", "msg": "test", "logger": "app"}
	data, _ := json.Marshal(entry)
	data = append(data, '\n')

	// Write 5 entries (more than buffer)
	for i := 0; i < 5; i++ {
		n, err := sink.Write(data)
		if err != nil {
			t.Fatalf("Write() error on iteration %d: %v", i, err)
		}
		if n != len(data) {
			t.Errorf("Write() = %d, want %d", n, len(data))
		}
	}

	count := 0
	for drained := false; !drained; {
		select {
		case <-sink.Entries():
			count++
		default:
			drained = true
		}
	}
	if count > 2 {
		t.Errorf("got %d entries, expected at most 2", count)
	}
}

func TestChannelSink_Sync(t *testing.T) {
	sink := NewChannelSink(10)
	defer sink.Close()

	// Sync should not error
	if err := sink.Sync(); err != nil {
		t.Errorf("Sync() error = %v", err)
	}
}

func TestChannelSink_UnparsableLineIsSwallowed(t *testing.T) {
	sink := NewChannelSink(1)
	defer sink.Close()

	n, err := sink.Write([]byte("not json\n"))
	if err != nil || n != 9 {
		t.Errorf("Write() = %d, %v; want 9, nil", n, err)
	}
	select {
	case e := <-sink.Entries():
		t.Errorf("unexpected entry %+v", e)
	default:
	}
}

func TestChannelSink_Close(t *testing.T) {
	sink := NewChannelSink(10)
	sink.Close()

	// Write after close should not panic
	_, err := sink.Write([]byte(`{"msg":"test"}`))
	if err == nil {
		t.Error("Write() after Close() should return error")
	}
}
