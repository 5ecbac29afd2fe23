package media

import (
	"bufio"
	"crypto/rand"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
	quitTimeout       = 3 * time.Second
	eventBuffer       = 16
)

// ErrClosed is returned by an MPV element after Close.
var ErrClosed = errors.New("media element closed")

// MPV plays audio through a headless mpv process controlled over JSON IPC.
// The process is started on the first Load and reused afterwards.
type MPV struct {
	path string

	lifecycle  sync.Mutex // guards everything below except mu
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{}
	conn       net.Conn
	loop       bool
	closed     bool

	mu     sync.Mutex // serializes IPC commands
	events chan Event
	done   chan struct{}
}

var _ Element = (*MPV)(nil)

// NewMPV returns an element that runs the mpv binary at path. An empty path
// means "mpv" from PATH.
func NewMPV(path string) *MPV {
	if strings.TrimSpace(path) == "" {
		path = "mpv"
	}
	return &MPV{
		path:   path,
		events: make(chan Event, eventBuffer),
		done:   make(chan struct{}),
	}
}

// Events delivers pause, resume and end-of-file notifications.
func (m *MPV) Events() <-chan Event {
	return m.events
}

// Load starts mpv if needed and replaces the current file.
func (m *MPV) Load(rawURL, title string) error {
	target, err := sanitizeMediaTarget(rawURL)
	if err != nil {
		return fmt.Errorf("invalid media target: %w", err)
	}

	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()
	if m.closed {
		return ErrClosed
	}
	if !m.runningLocked() {
		if err := m.startLocked(); err != nil {
			return err
		}
	}

	if _, err := m.sendCommand("loadfile", target, "replace"); err != nil {
		return fmt.Errorf("load %s: %w", target, err)
	}
	if _, err := m.sendCommand("set_property", "force-media-title", sanitizeTitle(title)); err != nil {
		logrus.WithError(err).Warn("mpv: set media title")
	}
	if _, err := m.sendCommand("set_property", "loop-file", loopValue(m.loop)); err != nil {
		logrus.WithError(err).Warn("mpv: set loop-file")
	}
	if _, err := m.sendCommand("set_property", "pause", false); err != nil {
		return fmt.Errorf("unpause: %w", err)
	}
	logrus.WithFields(logrus.Fields{"url": target, "title": title}).Info("mpv: loaded")
	return nil
}

// SetPaused pauses or resumes playback. It is a no-op before the first Load.
func (m *MPV) SetPaused(paused bool) error {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()
	if m.closed {
		return ErrClosed
	}
	if !m.runningLocked() {
		return nil
	}
	_, err := m.sendCommand("set_property", "pause", paused)
	return err
}

// SetLoop sets loop-file on the running process and remembers the value for
// processes started later.
func (m *MPV) SetLoop(loop bool) error {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.loop = loop
	if !m.runningLocked() {
		return nil
	}
	_, err := m.sendCommand("set_property", "loop-file", loopValue(loop))
	return err
}

// Stop unloads the current file and leaves mpv idle.
func (m *MPV) Stop() error {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()
	if m.closed {
		return ErrClosed
	}
	if !m.runningLocked() {
		return nil
	}
	_, err := m.sendCommand("stop")
	return err
}

// Close quits mpv and removes its socket. Events stops delivering.
func (m *MPV) Close() error {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	close(m.done)

	if m.conn != nil {
		_ = m.conn.Close()
		m.conn = nil
	}
	if m.cmd == nil {
		return nil
	}

	if m.runningLocked() {
		_, _ = m.sendCommand("quit")
	}
	select {
	case <-m.exited:
	case <-time.After(quitTimeout):
		logrus.Warn("mpv: quit timed out, killing")
		_ = killProcess(m.cmd)
	}
	_ = os.Remove(m.socketPath)
	return nil
}

func (m *MPV) runningLocked() bool {
	if m.cmd == nil || m.exited == nil {
		return false
	}
	select {
	case <-m.exited:
		return false
	default:
		return true
	}
}

func (m *MPV) startLocked() error {
	if m.socketPath == "" {
		randomBytes := make([]byte, 4)
		if _, err := rand.Read(randomBytes); err != nil {
			return fmt.Errorf("generate socket name: %w", err)
		}
		m.socketPath = filepath.Join(os.TempDir(), fmt.Sprintf("podcastr-%x.sock", randomBytes))
	}
	_ = os.Remove(m.socketPath)

	cmd := exec.Command(m.path, mpvArgs(m.socketPath)...)
	cmd.SysProcAttr = sysProcAttr()
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", m.path, err)
	}

	exited := make(chan struct{})
	go func() {
		err := cmd.Wait()
		logrus.WithError(err).Debug("mpv: process exited")
		close(exited)
	}()
	m.cmd = cmd
	m.exited = exited

	if err := m.waitForSocket(); err != nil {
		select {
		case <-exited:
		default:
			logrus.Warn("mpv: killing, socket never became ready")
			_ = killProcess(cmd)
		}
		return fmt.Errorf("mpv socket not ready: %w", err)
	}
	if err := m.observeLocked(); err != nil {
		return err
	}
	logrus.WithField("socket", m.socketPath).Info("mpv: started")
	return nil
}

func mpvArgs(socketPath string) []string {
	return []string{
		"--no-terminal",
		"--really-quiet",
		"--no-video",
		"--idle=yes",
		fmt.Sprintf("--input-ipc-server=%s", socketPath),
	}
}

func (m *MPV) waitForSocket() error {
	for i := 0; i < socketWaitRetries; i++ {
		time.Sleep(socketWaitDelay)
		select {
		case <-m.exited:
			return fmt.Errorf("mpv exited before socket was ready")
		default:
		}
		conn, err := net.Dial("unix", m.socketPath)
		if err == nil {
			_ = conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", m.socketPath, socketWaitRetries)
}

// observeLocked opens the persistent connection that receives events. mpv
// delivers property changes only to the client that asked to observe them.
func (m *MPV) observeLocked() error {
	if m.conn != nil {
		_ = m.conn.Close()
	}
	conn, err := net.Dial("unix", m.socketPath)
	if err != nil {
		return fmt.Errorf("event connection: %w", err)
	}
	if err := writeCommand(conn, []any{"observe_property", 1, "pause"}); err != nil {
		_ = conn.Close()
		return fmt.Errorf("observe pause: %w", err)
	}
	m.conn = conn
	go m.readLoop(conn)
	return nil
}

func (m *MPV) readLoop(conn net.Conn) {
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		ev, ok := parseEvent(scanner.Bytes())
		if !ok {
			continue
		}
		// Blocks until the receiver takes the event or the element closes.
		select {
		case m.events <- ev:
		case <-m.done:
			return
		}
	}
	select {
	case <-m.done:
	default:
		if err := scanner.Err(); err != nil {
			logrus.WithError(err).Warn("mpv: event connection closed")
		}
	}
}

func loopValue(loop bool) string {
	if loop {
		return "inf"
	}
	return "no"
}

// sanitizeMediaTarget rejects targets mpv would read as flags or that use
// schemes other than http(s). Anything without a scheme is a local path.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", fmt.Errorf("empty URL")
	}
	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in URL")
	}
	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("url must not start with '-'")
	}
	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return l, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}
	return filepath.Clean(l), nil
}

func sanitizeTitle(title string) string {
	t := strings.NewReplacer("\n", " ", "\r", " ", "\t", " ", "\x00", "").Replace(title)
	return strings.TrimSpace(t)
}
