package media

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSanitize(t *testing.T) {
	Convey("sanitizeMediaTarget", t, func() {
		Convey("accepts http and https URLs unchanged", func() {
			got, err := sanitizeMediaTarget("  https://cdn.example.com/a.m4a?x=1 ")
			So(err, ShouldBeNil)
			So(got, ShouldEqual, "https://cdn.example.com/a.m4a?x=1")
		})
		Convey("cleans local paths", func() {
			got, err := sanitizeMediaTarget("/tmp/../tmp/ep.mp3")
			So(err, ShouldBeNil)
			So(got, ShouldEqual, "/tmp/ep.mp3")
		})
		Convey("rejects flags, control characters and other schemes", func() {
			for _, in := range []string{"", "   ", "--script=evil.lua", "http://a\n--b", "file:///etc/passwd", "ytdl://x"} {
				_, err := sanitizeMediaTarget(in)
				So(err, ShouldNotBeNil)
			}
		})
	})

	Convey("sanitizeTitle flattens whitespace and drops NUL", t, func() {
		So(sanitizeTitle(" Faladev\n#30\t| Diego\x00 "), ShouldEqual, "Faladev #30 | Diego")
	})
}

func TestParseEvent(t *testing.T) {
	cases := []struct {
		line string
		want EventKind
		ok   bool
	}{
		{`{"event":"property-change","id":1,"name":"pause","data":true}`, EventPaused, true},
		{`{"event":"property-change","id":1,"name":"pause","data":false}`, EventResumed, true},
		{`{"event":"end-file","reason":"eof","playlist_entry_id":1}`, EventEnded, true},
		{`{"event":"end-file","reason":"stop"}`, 0, false},
		{`{"event":"property-change","name":"time-pos","data":1.5}`, 0, false},
		{`{"event":"property-change","name":"pause","data":null}`, 0, false},
		{`{"data":null,"error":"success","request_id":0}`, 0, false},
		{`not json`, 0, false},
	}
	for _, tc := range cases {
		got, ok := parseEvent([]byte(tc.line))
		if ok != tc.ok {
			t.Fatalf("parseEvent(%s) ok = %v, want %v", tc.line, ok, tc.ok)
		}
		if ok && got.Kind != tc.want {
			t.Fatalf("parseEvent(%s) = %v, want %v", tc.line, got.Kind, tc.want)
		}
	}
}

func TestEventKindString(t *testing.T) {
	if EventPaused.String() != "paused" || EventResumed.String() != "resumed" || EventEnded.String() != "ended" {
		t.Fatalf("unexpected names: %s %s %s", EventPaused, EventResumed, EventEnded)
	}
	if EventKind(42).String() != "unknown" {
		t.Fatalf("EventKind(42) = %s, want unknown", EventKind(42))
	}
}

// fakeMPV answers every command on a unix socket and records it.
func fakeMPV(t *testing.T, reply string) (string, <-chan []any) {
	t.Helper()
	dir, err := os.MkdirTemp("", "mpv")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	socket := filepath.Join(dir, "ipc.sock")

	ln, err := net.Listen("unix", socket)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	t.Cleanup(func() { _ = ln.Close() })

	got := make(chan []any, 8)
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			line, err := bufio.NewReader(conn).ReadBytes('\n')
			if err == nil {
				var cmd ipcCommand
				if json.Unmarshal(line, &cmd) == nil {
					got <- cmd.Command
				}
				_, _ = conn.Write([]byte(reply + "\n"))
			}
			_ = conn.Close()
		}
	}()
	return socket, got
}

func TestDoSendCommand(t *testing.T) {
	socket, got := fakeMPV(t, `{"data":"0.35","error":"success","request_id":0}`)

	data, err := doSendCommand(socket, []any{"set_property", "pause", true})
	if err != nil {
		t.Fatalf("doSendCommand returned error: %v", err)
	}
	if data != "0.35" {
		t.Fatalf("data = %v, want 0.35", data)
	}
	cmd := <-got
	if len(cmd) != 3 || cmd[0] != "set_property" || cmd[1] != "pause" || cmd[2] != true {
		t.Fatalf("command = %#v", cmd)
	}
}

func TestDoSendCommand_ReportsMPVError(t *testing.T) {
	socket, _ := fakeMPV(t, `{"error":"property not found"}`)
	if _, err := doSendCommand(socket, []any{"get_property", "nope"}); err == nil {
		t.Fatalf("doSendCommand returned nil error for mpv failure")
	}
	if _, err := doSendCommand(filepath.Join(t.TempDir(), "missing.sock"), []any{"quit"}); err == nil {
		t.Fatalf("doSendCommand returned nil error for missing socket")
	}
}

func TestReadLoop_DeliversEveryEventPastTheBuffer(t *testing.T) {
	m := NewMPV("")
	client, server := net.Pipe()
	defer server.Close()

	finished := make(chan struct{})
	go func() {
		m.readLoop(client)
		close(finished)
	}()

	total := eventBuffer + 4
	go func() {
		for i := 0; i < total; i++ {
			paused := i%2 == 0
			line := fmt.Sprintf(`{"event":"property-change","id":1,"name":"pause","data":%t}`+"\n", paused)
			if _, err := server.Write([]byte(line)); err != nil {
				return
			}
		}
	}()

	// Let the reader fill the buffer before anything is drained.
	deadline := time.Now().Add(2 * time.Second)
	for len(m.events) < eventBuffer && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	for i := 0; i < total; i++ {
		select {
		case ev := <-m.Events():
			want := EventResumed
			if i%2 == 0 {
				want = EventPaused
			}
			if ev.Kind != want {
				t.Fatalf("event %d = %v, want %v", i, ev.Kind, want)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("only %d of %d events delivered", i, total)
		}
	}

	close(m.done)
	_ = client.Close()
	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatalf("readLoop did not return after close")
	}
}

func TestReadLoop_StopsWhenClosedWithFullBuffer(t *testing.T) {
	m := NewMPV("")
	client, server := net.Pipe()
	defer server.Close()
	defer client.Close()

	finished := make(chan struct{})
	go func() {
		m.readLoop(client)
		close(finished)
	}()
	go func() {
		for i := 0; i <= eventBuffer; i++ {
			if _, err := server.Write([]byte(`{"event":"end-file","reason":"eof"}` + "\n")); err != nil {
				return
			}
		}
	}()

	deadline := time.Now().Add(2 * time.Second)
	for len(m.events) < eventBuffer && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	close(m.done)

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatalf("readLoop blocked on a full buffer after close")
	}
}

func TestMPV_IdleAndClosed(t *testing.T) {
	Convey("An MPV element that never loaded", t, func() {
		m := NewMPV("")
		So(m.path, ShouldEqual, "mpv")

		Convey("accepts pause, loop and stop without starting mpv", func() {
			So(m.SetPaused(true), ShouldBeNil)
			So(m.SetLoop(true), ShouldBeNil)
			So(m.Stop(), ShouldBeNil)
			So(m.loop, ShouldBeTrue)
			So(m.cmd, ShouldBeNil)
		})

		Convey("rejects bad targets before touching the process", func() {
			So(m.Load("--input-ipc-server=/tmp/x", "t"), ShouldNotBeNil)
			So(m.cmd, ShouldBeNil)
		})

		Convey("refuses work after Close", func() {
			So(m.Close(), ShouldBeNil)
			So(m.Close(), ShouldBeNil)
			So(m.Load("https://a/b.mp3", "t"), ShouldEqual, ErrClosed)
			So(m.SetPaused(false), ShouldEqual, ErrClosed)
		})
	})
}

func TestMPVArgs(t *testing.T) {
	args := mpvArgs("/tmp/s.sock")
	want := map[string]bool{"--no-video": true, "--idle=yes": true, "--input-ipc-server=/tmp/s.sock": true}
	for _, a := range args {
		delete(want, a)
	}
	if len(want) != 0 {
		t.Fatalf("mpvArgs missing %v in %v", want, args)
	}
	if loopValue(true) != "inf" || loopValue(false) != "no" {
		t.Fatalf("loopValue mismatch")
	}
}

func TestNop(t *testing.T) {
	var el Element = Nop{}
	if el.Load("x", "y") != nil || el.SetPaused(true) != nil || el.SetLoop(true) != nil || el.Stop() != nil || el.Close() != nil {
		t.Fatalf("Nop returned an error")
	}
	if el.Events() != nil {
		t.Fatalf("Nop.Events should be nil")
	}
}
