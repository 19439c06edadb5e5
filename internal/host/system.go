package host

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"runtime"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/pkg/browser"
)

// SystemBrowser opens URLs with the platform's default handler
type SystemBrowser struct{}

func init() {
	// the opener's output would corrupt the palette
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
}

// Open launches url. background keeps the browser behind the terminal on
// macOS, where "open -g" supports it; browser.OpenURL has no such switch.
// The opener outlives ctx; ctx only gates the launch.
func (SystemBrowser) Open(ctx context.Context, url string, background bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if background && runtime.GOOS == "darwin" {
		return openBackground(url)
	}
	if err := browser.OpenURL(url); err != nil {
		return fmt.Errorf("failed to open %s: %w", url, err)
	}
	return nil
}

func openBackground(url string) error {
	var stderr bytes.Buffer
	cmd := exec.Command("open", "-g", url)
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open %s: %w", url, err)
	}
	go func() {
		if err := cmd.Wait(); err != nil {
			slog.Warn("url opener exited with error", "url", url, "stderr", stderr.String(), "error", err)
		}
	}()
	return nil
}

// SystemClipboard writes to the OS clipboard
type SystemClipboard struct{}

func (SystemClipboard) Copy(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard is not supported on this system")
	}
	return clipboard.WriteAll(text)
}

// Level is the severity of a notice
type Level string

const (
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notice is one queued notification
type Notice struct {
	Level   Level
	Message string
}

// QueueNotifier collects notices for a UI to drain and logs them
type QueueNotifier struct {
	mu      sync.Mutex
	notices []Notice
	logger  *slog.Logger
}

// NewQueueNotifier creates a notifier that also logs to logger
func NewQueueNotifier(logger *slog.Logger) *QueueNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &QueueNotifier{logger: logger}
}

func (n *QueueNotifier) push(level Level, msg string) {
	n.mu.Lock()
	n.notices = append(n.notices, Notice{Level: level, Message: msg})
	n.mu.Unlock()
	n.logger.Info("notice", "level", string(level), "message", msg)
}

func (n *QueueNotifier) Success(msg string) { n.push(LevelSuccess, msg) }
func (n *QueueNotifier) Warning(msg string) { n.push(LevelWarning, msg) }
func (n *QueueNotifier) Error(msg string)   { n.push(LevelError, msg) }

// Drain returns and clears the queued notices
func (n *QueueNotifier) Drain() []Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := n.notices
	n.notices = nil
	return out
}
