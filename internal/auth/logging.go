package auth

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// AuthLogPath is where authentication attempts are appended when LOGGING=true
var AuthLogPath = filepath.Join("log", "auth.log")

var authLogMu sync.Mutex

// LogAuthAttempt appends an authentication attempt record to the auth log.
// Fields: timestamp (RFC3339) | level | authType | status | identifier? | message?
// level: debug|info|warning|error|fatal
// authType: Local|Google|Logout
// status: Success|Fail
// identifier: email or user id (optional)
func LogAuthAttempt(level string, authType string, status string, identifier string, message string) {
	if !strings.EqualFold(os.Getenv("LOGGING"), "true") {
		return
	}

	authLogMu.Lock()
	defer authLogMu.Unlock()

	// logging must never fail a request
	if err := os.MkdirAll(filepath.Dir(AuthLogPath), 0o750); err != nil {
		return
	}
	f, err := os.OpenFile(AuthLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return
	}
	defer func() { _ = f.Close() }()

	ts := time.Now().UTC().Format(time.RFC3339)
	parts := []string{ts, level, authType, status}
	if identifier != "" {
		parts = append(parts, identifier)
	}
	if message != "" {
		parts = append(parts, message)
	}

	_, _ = f.WriteString(strings.Join(parts, " | ") + "\n")
}
