package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]logrus.Level{
		"debug":  logrus.DebugLevel,
		" WARN ": logrus.WarnLevel,
		"error":  logrus.ErrorLevel,
		"":       logrus.InfoLevel,
		"chatty": logrus.InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestConfigure_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "podcastr.log")
	logger := logrus.New()

	closer, err := configure(logger, Options{File: path, Level: "debug", JSON: true})
	if err != nil {
		t.Fatalf("configure returned error: %v", err)
	}
	logger.WithField("episodes", 12).Debug("catalog built")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(data))), &entry); err != nil {
		t.Fatalf("log line is not JSON: %q", data)
	}
	if entry["msg"] != "catalog built" || entry["level"] != "debug" || entry["episodes"] != float64(12) {
		t.Fatalf("entry = %#v", entry)
	}
}

func TestConfigure_EmptyFileDiscards(t *testing.T) {
	logger := logrus.New()
	closer, err := configure(logger, Options{})
	if err != nil {
		t.Fatalf("configure returned error: %v", err)
	}
	if err := closer.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if logger.GetLevel() != logrus.InfoLevel {
		t.Fatalf("level = %v, want info", logger.GetLevel())
	}
}
