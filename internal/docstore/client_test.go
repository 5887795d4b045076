package docstore

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"io"
	"net"
	"testing"
	"time"
)

// fakeServer speaks the framed-JSON protocol on a local listener and answers
// each command with a canned handler.
func fakeServer(t *testing.T, handle func(req map[string]any) map[string]any) (host string, port int) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(conn net.Conn) {
				defer conn.Close()
				for {
					lenBuf := make([]byte, 4)
					if _, err := io.ReadFull(conn, lenBuf); err != nil {
						return
					}
					payload := make([]byte, binary.LittleEndian.Uint32(lenBuf))
					if _, err := io.ReadFull(conn, payload); err != nil {
						return
					}
					var req map[string]any
					if err := json.Unmarshal(payload, &req); err != nil {
						return
					}
					respBytes, _ := json.Marshal(handle(req))
					out := make([]byte, 4+len(respBytes))
					binary.LittleEndian.PutUint32(out, uint32(len(respBytes)))
					copy(out[4:], respBytes)
					if _, err := conn.Write(out); err != nil {
						return
					}
				}
			}(conn)
		}
	}()

	addr := ln.Addr().(*net.TCPAddr)
	return addr.IP.String(), addr.Port
}

func TestClientPing(t *testing.T) {
	host, port := fakeServer(t, func(req map[string]any) map[string]any {
		if req["cmd"] != "ping" {
			return map[string]any{"ok": false, "error": "unexpected cmd"}
		}
		return map[string]any{"ok": true, "data": "pong"}
	})

	c, err := Connect(host, port, time.Second)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer c.Close()

	pong, err := c.Ping(context.Background())
	if err != nil {
		t.Fatalf("ping: %v", err)
	}
	if pong != "pong" {
		t.Fatalf("expected pong, got %q", pong)
	}
}

func TestClientInsertAndFindOne(t *testing.T) {
	host, port := fakeServer(t, func(req map[string]any) map[string]any {
		switch req["cmd"] {
		case "insert":
			return map[string]any{"ok": true, "data": map[string]any{"id": float64(7)}}
		case "find_one":
			return map[string]any{"ok": true, "data": map[string]any{"_id": float64(7), "title": "Feedback"}}
		}
		return map[string]any{"ok": false, "error": "unexpected cmd"}
	})

	c, err := Connect(host, port, time.Second)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer c.Close()
	ctx := context.Background()

	result, err := c.Insert(ctx, "forms", map[string]any{"title": "Feedback"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if extractID(result) != "7" {
		t.Fatalf("expected id 7, got %q", extractID(result))
	}

	doc, err := c.FindOne(ctx, "forms", map[string]any{"_id": float64(7)})
	if err != nil {
		t.Fatalf("find_one: %v", err)
	}
	if doc["title"] != "Feedback" {
		t.Fatalf("expected title Feedback, got %v", doc["title"])
	}
}

func TestClientServerError(t *testing.T) {
	host, port := fakeServer(t, func(req map[string]any) map[string]any {
		return map[string]any{"ok": false, "error": "collection missing"}
	})

	c, err := Connect(host, port, time.Second)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer c.Close()

	_, err = c.Count(context.Background(), "nope", map[string]any{})
	if err == nil {
		t.Fatal("expected error from server")
	}
	storeErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	if storeErr.Msg != "collection missing" {
		t.Fatalf("unexpected message %q", storeErr.Msg)
	}
}

func TestClientContextCancelled(t *testing.T) {
	host, port := fakeServer(t, func(req map[string]any) map[string]any {
		return map[string]any{"ok": true, "data": "pong"}
	})

	c, err := Connect(host, port, time.Second)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Ping(ctx); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
