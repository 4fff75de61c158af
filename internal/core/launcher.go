package core

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"github.com/seckatie/urlrota/internal/core/db"
	"github.com/seckatie/urlrota/internal/logger"
)

// Launcher opens a single URL in a browser.
type Launcher interface {
	Launch(ctx context.Context, url string) error
}

// ProcessLauncher starts Command with the URL as its last argument and does
// not wait for it to exit. Command may carry leading arguments, e.g.
// "flatpak run org.mozilla.firefox".
type ProcessLauncher struct {
	Command string
	log     logger.Logger
}

func NewProcessLauncher(command string, log logger.Logger) *ProcessLauncher {
	if log == nil {
		log = logger.Nop()
	}
	return &ProcessLauncher{Command: command, log: log}
}

func (l *ProcessLauncher) Launch(ctx context.Context, url string) error {
	parts := strings.Fields(l.Command)
	if len(parts) == 0 {
		return fmt.Errorf("%w: empty browser command", ErrLaunchFailed)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	// Not CommandContext: the browser must outlive the run that started it.
	cmd := exec.Command(parts[0], append(parts[1:], url)...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrLaunchFailed, parts[0], err)
	}
	go func() {
		if err := cmd.Wait(); err != nil {
			l.log.Debug("browser process exited", logger.String("command", parts[0]), logger.Error(err))
		}
	}()
	return nil
}

// LauncherPool hands out one launcher per browser profile and closes the
// ones holding resources (chromedp sessions) on Close.
type LauncherPool struct {
	log logger.Logger

	mu        sync.Mutex
	launchers map[int64]Launcher
	// newChrome builds the chromedp launcher; replaced in tests.
	newChrome func(execPath string) Launcher
}

func NewLauncherPool(log logger.Logger) *LauncherPool {
	if log == nil {
		log = logger.Nop()
	}
	p := &LauncherPool{
		log:       log,
		launchers: make(map[int64]Launcher),
	}
	p.newChrome = func(execPath string) Launcher { return NewChromeLauncher(execPath, log) }
	return p
}

// For returns the cached launcher for b, creating it on first use.
func (p *LauncherPool) For(b db.Browser) (Launcher, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if l, ok := p.launchers[b.ID]; ok {
		return l, nil
	}

	var l Launcher
	switch b.Launcher {
	case db.LauncherExec, "":
		if strings.TrimSpace(b.Command) == "" {
			return nil, fmt.Errorf("%w: browser %q has no command", ErrInvalidInput, b.Name)
		}
		l = NewProcessLauncher(b.Command, p.log)
	case db.LauncherChromedp:
		l = p.newChrome(b.Command)
	default:
		return nil, fmt.Errorf("%w: browser %q has unknown launcher %q", ErrInvalidInput, b.Name, b.Launcher)
	}
	p.launchers[b.ID] = l
	return l, nil
}

// Close shuts down every launcher that holds a browser session.
func (p *LauncherPool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	for id, l := range p.launchers {
		if c, ok := l.(interface{ Close() error }); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		delete(p.launchers, id)
	}
	return errors.Join(errs...)
}
