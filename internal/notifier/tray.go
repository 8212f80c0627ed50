// Package notifier delivers frog notices: the time's-up notice after expiry
// and the "Focus Time!" nudge. Delivery goes to the desktop tray companion
// over its local webhook, or to the log when no tray is configured.
package notifier

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/eatthefrog/internal/constants"
	"github.com/julianstephens/eatthefrog/internal/logger"
)

var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess
)

// ErrTrayNotRunning is returned when the tray lockfile or process is missing.
var ErrTrayNotRunning = errors.New("frog-tray is not running")

// Sender delivers one notice.
type Sender interface {
	Send(title, body string) error
}

// WebhookPayload is the tray companion's request body.
type WebhookPayload struct {
	Title      string `json:"title"`
	Text       string `json:"text"`
	DurationMs uint32 `json:"duration_ms"`
}

// TraySender posts notices to the tray companion discovered via its lockfile.
type TraySender struct {
	client *http.Client
}

func NewTraySender() *TraySender {
	return &TraySender{client: &http.Client{Timeout: 5 * time.Second}}
}

func (t *TraySender) Send(title, body string) error {
	dir, err := GetTrayAppConfigDir()
	if err != nil {
		return err
	}

	port, secret, err := findAndValidateTrayProcess(filepath.Join(dir, constants.NotifierLockfileName))
	if err != nil {
		return err
	}

	return t.post(port, secret, WebhookPayload{
		Title:      title,
		Text:       body,
		DurationMs: constants.NotificationDurationMs,
	})
}

// GetTrayAppConfigDir returns the tray companion's config directory, honoring
// a custom lockfile_dir from its settings.json.
func GetTrayAppConfigDir() (string, error) {
	configDir, err := userConfigDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}

	trayConfigDir := filepath.Join(configDir, constants.TrayAppIdentifier)

	data, err := os.ReadFile(filepath.Join(trayConfigDir, "settings.json"))
	if err != nil {
		return trayConfigDir, nil
	}
	var store struct {
		Settings struct {
			LockfileDir *string `json:"lockfile_dir"`
		} `json:"settings"`
	}
	if err := json.Unmarshal(data, &store); err == nil && store.Settings.LockfileDir != nil && *store.Settings.LockfileDir != "" {
		return *store.Settings.LockfileDir, nil
	}
	return trayConfigDir, nil
}

// findAndValidateTrayProcess parses a "port|pid|secret" lockfile and checks
// that the pid still belongs to the tray executable.
func findAndValidateTrayProcess(lockfilePath string) (string, string, error) {
	content, err := os.ReadFile(lockfilePath)
	if err != nil {
		return "", "", ErrTrayNotRunning
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 3 {
		return "", "", errors.New("lockfile is malformed")
	}

	port := strings.TrimSpace(parts[0])
	if port == "" {
		return "", "", errors.New("port in lockfile is empty")
	}
	portNum, err := strconv.Atoi(port)
	if err != nil {
		return "", "", errors.New("invalid port number in lockfile")
	}
	if portNum < 1 || portNum > 65535 {
		return "", "", fmt.Errorf("port number %d is outside valid range (1-65535)", portNum)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return "", "", errors.New("invalid process ID in lockfile")
	}
	secret := strings.TrimSpace(parts[2])
	if secret == "" {
		return "", "", errors.New("secret in lockfile is empty")
	}

	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return "", "", ErrTrayNotRunning
	}
	if !strings.HasPrefix(process.Executable(), constants.TrayExecutablePrefix) {
		return "", "", fmt.Errorf("process with PID %d is not %s (is %s)", pid, constants.TrayExecutablePrefix, process.Executable())
	}

	return port, secret, nil
}

func (t *TraySender) post(port, secret string, payload WebhookPayload) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, "http://127.0.0.1:"+port, bytes.NewReader(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Frog-Secret", secret)

	res, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
	return fmt.Errorf("notification failed with status %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
}

// LogSender writes notices to the log and to w, for hosts without a tray.
type LogSender struct {
	w io.Writer
}

func NewLogSender(w io.Writer) *LogSender {
	return &LogSender{w: w}
}

func (l *LogSender) Send(title, body string) error {
	logger.Info("notice", "title", title, "body", body)
	if l.w == nil {
		return nil
	}
	_, err := fmt.Fprintf(l.w, "🐸 %s %s\n", title, body)
	return err
}

// FallbackSender tries the tray first and falls back to the log sender
// when the tray isn't running.
type FallbackSender struct {
	Primary  Sender
	Fallback Sender
}

func (f FallbackSender) Send(title, body string) error {
	err := f.Primary.Send(title, body)
	if err == nil || f.Fallback == nil {
		return err
	}
	logger.Debug("primary notice delivery failed, falling back", "error", err)
	return f.Fallback.Send(title, body)
}

// CheckTray validates the tray lockfile in dir without sending anything.
func CheckTray(dir string) error {
	_, _, err := findAndValidateTrayProcess(filepath.Join(dir, constants.NotifierLockfileName))
	return err
}
