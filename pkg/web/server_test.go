package web

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"triagecam/pkg/geometry"
	"triagecam/pkg/report"
	"triagecam/pkg/triage"
)

func videoRecord(frameID int, dets []triage.Detection) report.Record {
	return report.NewVideoRecord(time.Now(), "ward", frameID, dets)
}

func TestHealthz(t *testing.T) {
	s := NewServer(":0")

	resp, err := s.app.Test(httptest.NewRequest("GET", "/healthz", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "ok") {
		t.Errorf("body = %s, want ok", body)
	}
}

func TestStatusTallies(t *testing.T) {
	s := NewServer(":0")
	s.SetRun("run-1", "ward.mp4")

	s.PublishRecord(videoRecord(0, []triage.Detection{
		{Class: triage.ClassPerson, Status: triage.StatusUnconscious, Box: geometry.Box{X1: 1, Y1: 1, X2: 5, Y2: 5}},
		{Class: triage.ClassPerson, Status: triage.StatusBleeding, Box: geometry.Box{X1: 2, Y1: 2, X2: 4, Y2: 4}},
	}))
	s.PublishRecord(videoRecord(1, []triage.Detection{
		{Class: triage.ClassPerson, Status: triage.StatusPerson, Box: geometry.Box{X1: 1, Y1: 1, X2: 5, Y2: 5}},
	}))

	resp, err := s.app.Test(httptest.NewRequest("GET", "/api/status", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	var status Status
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if status.RunID != "run-1" || status.Input != "ward.mp4" {
		t.Errorf("run identity = %q/%q", status.RunID, status.Input)
	}
	if status.Records != 2 {
		t.Errorf("Records = %d, want 2", status.Records)
	}
	if status.Unconscious != 1 {
		t.Errorf("Unconscious = %d, want 1", status.Unconscious)
	}
	if status.Bleeding != 1 {
		t.Errorf("Bleeding = %d, want 1", status.Bleeding)
	}
	if status.StartedAt == "" {
		t.Error("StartedAt should be set")
	}
}

func TestRecordsEndpoint(t *testing.T) {
	s := NewServer(":0")
	for i := 0; i < 5; i++ {
		s.PublishRecord(videoRecord(i, nil))
	}

	resp, err := s.app.Test(httptest.NewRequest("GET", "/api/records?n=3", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	var records []report.Record
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	if records[0].FrameID == nil || *records[0].FrameID != 2 {
		t.Errorf("first record frame_id = %v, want 2", records[0].FrameID)
	}
	if records[2].FrameID == nil || *records[2].FrameID != 4 {
		t.Errorf("last record frame_id = %v, want 4", records[2].FrameID)
	}
}

func TestRecordsEndpointDefaultLimit(t *testing.T) {
	s := NewServer(":0")
	for i := 0; i < 60; i++ {
		s.PublishRecord(videoRecord(i, nil))
	}

	resp, err := s.app.Test(httptest.NewRequest("GET", "/api/records", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	var records []report.Record
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if len(records) != 50 {
		t.Fatalf("got %d records, want 50", len(records))
	}
	if *records[0].FrameID != 10 {
		t.Errorf("first record frame_id = %d, want 10", *records[0].FrameID)
	}
}

func TestFrameEndpoint(t *testing.T) {
	s := NewServer(":0")

	resp, err := s.app.Test(httptest.NewRequest("GET", "/api/frame", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != 404 {
		t.Errorf("status before any frame = %d, want 404", resp.StatusCode)
	}

	jpeg := []byte{0xff, 0xd8, 0x01, 0x02, 0xff, 0xd9}
	s.PublishFrame(jpeg)

	resp, err = s.app.Test(httptest.NewRequest("GET", "/api/frame", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/jpeg" {
		t.Errorf("content type = %q, want image/jpeg", ct)
	}

	body, _ := io.ReadAll(resp.Body)
	if !bytes.Equal(body, jpeg) {
		t.Errorf("body = %v, want %v", body, jpeg)
	}
}

func TestWebSocketUpgradeRequired(t *testing.T) {
	s := NewServer(":0")

	resp, err := s.app.Test(httptest.NewRequest("GET", "/ws/records", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != 426 {
		t.Errorf("status = %d, want 426", resp.StatusCode)
	}
}

func TestRecordsWebSocket(t *testing.T) {
	s := NewServer(":18090")
	s.StartAsync()
	defer s.Shutdown()
	time.Sleep(100 * time.Millisecond)

	// Published before connecting: should arrive as backlog.
	s.PublishRecord(videoRecord(0, nil))

	ws, _, err := websocket.DefaultDialer.Dial("ws://localhost:18090/ws/records", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer ws.Close()

	ws.SetReadDeadline(time.Now().Add(2 * time.Second))

	msgType, data, err := ws.ReadMessage()
	if err != nil {
		t.Fatalf("read backlog: %v", err)
	}
	if msgType != websocket.TextMessage {
		t.Errorf("backlog message type = %d, want text", msgType)
	}

	var rec report.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		t.Fatalf("unmarshal backlog: %v", err)
	}
	if rec.FrameID == nil || *rec.FrameID != 0 {
		t.Errorf("backlog frame_id = %v, want 0", rec.FrameID)
	}

	// Published while connected: should arrive live.
	time.Sleep(50 * time.Millisecond)
	s.PublishRecord(videoRecord(1, nil))

	_, data, err = ws.ReadMessage()
	if err != nil {
		t.Fatalf("read live record: %v", err)
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		t.Fatalf("unmarshal live record: %v", err)
	}
	if rec.FrameID == nil || *rec.FrameID != 1 {
		t.Errorf("live frame_id = %v, want 1", rec.FrameID)
	}
}

func TestFramesWebSocket(t *testing.T) {
	s := NewServer(":18091")
	s.StartAsync()
	defer s.Shutdown()
	time.Sleep(100 * time.Millisecond)

	first := []byte{0xff, 0xd8, 0x01}
	s.PublishFrame(first)

	ws, _, err := websocket.DefaultDialer.Dial("ws://localhost:18091/ws/frames", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer ws.Close()

	ws.SetReadDeadline(time.Now().Add(2 * time.Second))

	// Latest frame arrives immediately on connect.
	msgType, data, err := ws.ReadMessage()
	if err != nil {
		t.Fatalf("read initial frame: %v", err)
	}
	if msgType != websocket.BinaryMessage {
		t.Errorf("message type = %d, want binary", msgType)
	}
	if !bytes.Equal(data, first) {
		t.Errorf("initial frame = %v, want %v", data, first)
	}

	time.Sleep(50 * time.Millisecond)
	second := []byte{0xff, 0xd8, 0x02}
	s.PublishFrame(second)

	_, data, err = ws.ReadMessage()
	if err != nil {
		t.Fatalf("read live frame: %v", err)
	}
	if !bytes.Equal(data, second) {
		t.Errorf("live frame = %v, want %v", data, second)
	}
}

func TestStatusCountsWatchers(t *testing.T) {
	s := NewServer(":18092")
	s.StartAsync()
	defer s.Shutdown()
	time.Sleep(100 * time.Millisecond)

	ws, _, err := websocket.DefaultDialer.Dial("ws://localhost:18092/ws/records", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer ws.Close()
	time.Sleep(50 * time.Millisecond)

	resp, err := s.app.Test(httptest.NewRequest("GET", "/api/status", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	var status Status
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if status.Watchers != 1 {
		t.Errorf("Watchers = %d, want 1", status.Watchers)
	}
}
