package core

import (
	"context"
	"errors"
	"os/exec"
	"slices"
	"testing"

	"github.com/seckatie/urlrota/internal/core/db"
	"github.com/seckatie/urlrota/internal/logger"
)

func TestProcessLauncher(t *testing.T) {
	t.Run("starts command", func(t *testing.T) {
		if _, err := exec.LookPath("true"); err != nil {
			t.Skip("true not available")
		}
		l := NewProcessLauncher("true", logger.Nop())
		if err := l.Launch(context.Background(), "https://example.com"); err != nil {
			t.Errorf("expected launch to succeed, got %v", err)
		}
	})

	t.Run("missing executable", func(t *testing.T) {
		l := NewProcessLauncher("/nonexistent/urlrota-browser", logger.Nop())
		err := l.Launch(context.Background(), "https://example.com")
		if !errors.Is(err, ErrLaunchFailed) {
			t.Errorf("expected ErrLaunchFailed, got %v", err)
		}
	})

	t.Run("empty command", func(t *testing.T) {
		l := NewProcessLauncher("   ", logger.Nop())
		if err := l.Launch(context.Background(), "https://example.com"); !errors.Is(err, ErrLaunchFailed) {
			t.Errorf("expected ErrLaunchFailed, got %v", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		l := NewProcessLauncher("true", logger.Nop())
		if err := l.Launch(ctx, "https://example.com"); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

type closingLauncher struct {
	closed bool
}

func (c *closingLauncher) Launch(ctx context.Context, url string) error { return nil }
func (c *closingLauncher) Close() error {
	c.closed = true
	return nil
}

func TestLauncherPool(t *testing.T) {
	p := NewLauncherPool(logger.Nop())
	chrome := &closingLauncher{}
	var chromePath string
	p.newChrome = func(execPath string) Launcher {
		chromePath = execPath
		return chrome
	}

	exec1, err := p.For(db.Browser{ID: 1, Name: "firefox", Command: "firefox", Launcher: db.LauncherExec})
	if err != nil {
		t.Fatalf("For(exec) failed: %v", err)
	}
	if _, ok := exec1.(*ProcessLauncher); !ok {
		t.Errorf("expected *ProcessLauncher, got %T", exec1)
	}
	exec2, _ := p.For(db.Browser{ID: 1, Name: "firefox", Command: "firefox"})
	if exec1 != exec2 {
		t.Error("expected launcher to be cached per browser id")
	}

	got, err := p.For(db.Browser{ID: 2, Name: "chrome", Command: "/usr/bin/chromium", Launcher: db.LauncherChromedp})
	if err != nil {
		t.Fatalf("For(chromedp) failed: %v", err)
	}
	if got != Launcher(chrome) || chromePath != "/usr/bin/chromium" {
		t.Errorf("unexpected chromedp launcher %T with path %q", got, chromePath)
	}

	if _, err := p.For(db.Browser{ID: 3, Name: "odd", Launcher: "telnet"}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for unknown launcher, got %v", err)
	}
	if _, err := p.For(db.Browser{ID: 4, Name: "blank"}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for missing command, got %v", err)
	}

	if err := p.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !chrome.closed {
		t.Error("expected chromedp launcher to be closed")
	}
}

func TestChromeLauncher_CloseWithoutStart(t *testing.T) {
	c := NewChromeLauncher("", logger.Nop())
	if err := c.Close(); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestChromeLauncher_DropsEndedSession(t *testing.T) {
	c := NewChromeLauncher("", logger.Nop())

	var cancelled []string
	browserCtx, cancelBrowser := context.WithCancel(context.Background())
	c.browserCtx = browserCtx
	c.cancelBrowser = func() { cancelled = append(cancelled, "browser"); cancelBrowser() }
	c.cancelAlloc = func() { cancelled = append(cancelled, "alloc") }
	c.tabCancels = []context.CancelFunc{func() { cancelled = append(cancelled, "tab") }}
	c.firstTabUsed = true

	// A live session is kept.
	c.dropStaleSession()
	if c.browserCtx == nil || len(cancelled) != 0 {
		t.Fatalf("expected live session to be kept, cancelled %v", cancelled)
	}

	// The window was closed: the browser context ends on its own.
	cancelBrowser()
	c.dropStaleSession()
	if c.browserCtx != nil || c.firstTabUsed || c.tabCancels != nil {
		t.Errorf("expected session state to be cleared, got ctx=%v firstTabUsed=%v tabs=%d",
			c.browserCtx, c.firstTabUsed, len(c.tabCancels))
	}
	if want := []string{"tab", "browser", "alloc"}; !slices.Equal(cancelled, want) {
		t.Errorf("cancelled %v, want %v", cancelled, want)
	}

	if err := c.Close(); err != nil {
		t.Errorf("Close after a dropped session: %v", err)
	}
}
