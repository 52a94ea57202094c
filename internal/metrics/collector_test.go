package metrics

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestCollector_Counters(t *testing.T) {
	c := NewCollector("assets/jsonfiles/colors.json")

	for i := 0; i < 3; i++ {
		c.RecordRequest()
	}
	c.RecordServed()
	c.RecordServed()
	c.RecordFailure(errors.New("read colors: no such file"))
	c.RecordLimited()

	snap := c.Snapshot()
	if snap.Requests != 3 {
		t.Errorf("Requests = %d, want 3", snap.Requests)
	}
	if snap.Served != 2 {
		t.Errorf("Served = %d, want 2", snap.Served)
	}
	if snap.Failed != 1 {
		t.Errorf("Failed = %d, want 1", snap.Failed)
	}
	if snap.Limited != 1 {
		t.Errorf("Limited = %d, want 1", snap.Limited)
	}
	if snap.LastError != "read colors: no such file" {
		t.Errorf("LastError = %q", snap.LastError)
	}
	if snap.LastServed == nil || snap.LastServed.IsZero() {
		t.Error("LastServed should be set")
	}
	if snap.ColorsPath != "assets/jsonfiles/colors.json" {
		t.Errorf("ColorsPath = %q", snap.ColorsPath)
	}
	if snap.RequestsSec <= 0 {
		t.Errorf("RequestsSec = %f, want > 0", snap.RequestsSec)
	}
}

func TestCollector_FailureWithoutError(t *testing.T) {
	c := NewCollector("x.json")
	c.RecordFailure(nil)

	snap := c.Snapshot()
	if snap.Failed != 1 {
		t.Errorf("Failed = %d, want 1", snap.Failed)
	}
	if snap.LastError != "" {
		t.Errorf("LastError = %q, want empty", snap.LastError)
	}
}

func TestSnapshot_OmitsLastServedUntilServed(t *testing.T) {
	c := NewCollector("x.json")

	data, err := json.Marshal(c.Snapshot())
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "last_served") {
		t.Errorf("snapshot = %s, want last_served omitted", data)
	}

	c.RecordServed()
	data, err = json.Marshal(c.Snapshot())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "last_served") {
		t.Errorf("snapshot = %s, want last_served", data)
	}
}

func TestCollector_WSClients(t *testing.T) {
	c := NewCollector("x.json")
	c.ClientConnected()
	c.ClientConnected()
	c.ClientDisconnected()

	if got := c.Snapshot().WSClients; got != 1 {
		t.Errorf("WSClients = %d, want 1", got)
	}
}

func TestCollector_LogRingBuffer(t *testing.T) {
	c := NewCollector("x.json")

	for i := 0; i < 600; i++ {
		c.AddLog(LogEntry{Level: "info", Message: fmt.Sprintf("msg-%d", i)})
	}

	logs := c.Logs()
	if len(logs) > 500 {
		t.Errorf("log buffer size = %d, should not exceed 500", len(logs))
	}
	if logs[len(logs)-1].Message != "msg-599" {
		t.Errorf("last log = %q, want msg-599", logs[len(logs)-1].Message)
	}

	logs[0].Message = "mutated"
	if c.Logs()[0].Message == "mutated" {
		t.Error("Logs() should return a copy")
	}
}

func TestSlidingWindow_Evicts(t *testing.T) {
	w := newSlidingWindow(time.Second)
	old := time.Now().Add(-5 * time.Second)
	w.Add(old, 10)
	w.Add(time.Now(), 2)

	if rate := w.Rate(); rate != 2 {
		t.Errorf("Rate() = %f, want 2", rate)
	}
}

func TestLogWriter(t *testing.T) {
	c := NewCollector("x.json")
	logger := zerolog.New(NewLogWriter(c))

	logger.Warn().Str("component", "http-server").Int("status", 500).Msg("colors read failed")

	logs := c.Logs()
	if len(logs) != 1 {
		t.Fatalf("expected 1 log, got %d", len(logs))
	}
	e := logs[0]
	if e.Level != "warn" {
		t.Errorf("Level = %q, want warn", e.Level)
	}
	if e.Message != "colors read failed" {
		t.Errorf("Message = %q", e.Message)
	}
	if e.Fields["component"] != "http-server" {
		t.Errorf("component field = %q", e.Fields["component"])
	}
	if e.Fields["status"] != "500" {
		t.Errorf("status field = %q, want 500", e.Fields["status"])
	}
}

func TestLogWriter_PlainText(t *testing.T) {
	c := NewCollector("x.json")
	w := NewLogWriter(c)

	n, err := w.Write([]byte("not json\n"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if n != len("not json\n") {
		t.Errorf("Write n = %d", n)
	}
	logs := c.Logs()
	if len(logs) != 1 || logs[0].Message != "not json" || logs[0].Level != "info" {
		t.Errorf("logs = %+v", logs)
	}
}
