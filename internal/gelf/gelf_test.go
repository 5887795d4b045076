package gelf

import (
	"encoding/json"
	"net"
	"testing"
	"time"
)

func TestWriteSendsGelfMessage(t *testing.T) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer pc.Close()

	w, err := New(pc.LocalAddr().String(), "testsvc")
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}

	if _, err := w.Write([]byte("2026/02/19 18:43:52 Warning: something odd\n")); err != nil {
		t.Fatalf("write: %v", err)
	}

	pc.SetReadDeadline(time.Now().Add(time.Second))
	buf := make([]byte, 8192)
	n, _, err := pc.ReadFrom(buf)
	if err != nil {
		t.Fatalf("read packet: %v", err)
	}

	var msg map[string]any
	if err := json.Unmarshal(buf[:n], &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if msg["short_message"] != "Warning: something odd" {
		t.Fatalf("date prefix not stripped: %q", msg["short_message"])
	}
	if msg["level"] != float64(4) {
		t.Fatalf("warning not mapped to level 4: %v", msg["level"])
	}
	if msg["_service"] != "testsvc" {
		t.Fatalf("service field missing: %v", msg["_service"])
	}
}

func TestMultilineKeepsFullMessage(t *testing.T) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer pc.Close()

	w, err := New(pc.LocalAddr().String(), "testsvc")
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}

	if _, err := w.Write([]byte("PANIC: boom\ngoroutine 1 [running]:\nmain.main()\n")); err != nil {
		t.Fatalf("write: %v", err)
	}

	pc.SetReadDeadline(time.Now().Add(time.Second))
	buf := make([]byte, 8192)
	n, _, err := pc.ReadFrom(buf)
	if err != nil {
		t.Fatalf("read packet: %v", err)
	}

	var msg map[string]any
	if err := json.Unmarshal(buf[:n], &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if msg["short_message"] != "PANIC: boom" {
		t.Fatalf("short message not first line: %q", msg["short_message"])
	}
	full, _ := msg["full_message"].(string)
	if full == "" || full == msg["short_message"] {
		t.Fatalf("stack trace lost: %q", full)
	}
	if msg["level"] != float64(3) {
		t.Fatalf("panic not mapped to level 3: %v", msg["level"])
	}
}

func TestStripLogPrefix(t *testing.T) {
	cases := map[string]string{
		"2026/02/19 18:43:52 hello": "hello",
		"no prefix here":            "no prefix here",
	}
	for in, want := range cases {
		if got := stripLogPrefix(in); got != want {
			t.Fatalf("stripLogPrefix(%q) = %q, want %q", in, got, want)
		}
	}
}
