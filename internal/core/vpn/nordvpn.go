package vpn

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/seckatie/urlrota/internal/logger"
)

// Runner runs an external command and returns its standard output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	return string(out), err
}

// Options configures a CLIGate.
type Options struct {
	// Binary is the VPN client executable, "nordvpn" when empty.
	Binary string
	// Retries is the number of connect attempts after the first one.
	Retries int
	// RetryDelay is the pause between connect attempts.
	RetryDelay time.Duration
	// CommandTimeout bounds every single client invocation.
	CommandTimeout time.Duration
}

// CLIGate drives the NordVPN command-line client.
//
// The retry count together with the per-command timeout bounds how long
// Connect can take; there is no overall deadline beyond the caller's ctx.
type CLIGate struct {
	opts   Options
	runner Runner
	log    logger.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

func NewCLIGate(opts Options, runner Runner, log logger.Logger) *CLIGate {
	if opts.Binary == "" {
		opts.Binary = "nordvpn"
	}
	if opts.Retries < 0 {
		opts.Retries = 0
	}
	if opts.CommandTimeout <= 0 {
		opts.CommandTimeout = 30 * time.Second
	}
	if runner == nil {
		runner = ExecRunner{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &CLIGate{opts: opts, runner: runner, log: log, sleep: sleepContext}
}

func (g *CLIGate) run(ctx context.Context, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.opts.CommandTimeout)
	defer cancel()
	return g.runner.Run(ctx, g.opts.Binary, args...)
}

func (g *CLIGate) Status(ctx context.Context) (Status, error) {
	out, err := g.run(ctx, "status")
	if err != nil {
		return Status{State: "Unknown"}, fmt.Errorf("%s status: %w", g.opts.Binary, err)
	}
	return ParseStatus(out), nil
}

func (g *CLIGate) IsConnected(ctx context.Context) bool {
	st, err := g.Status(ctx)
	if err != nil {
		g.log.Warn("vpn status check failed", logger.Error(err))
		return false
	}
	return st.Connected
}

// Connect runs `connect <profile>` up to 1+Retries times, checking the status
// after each attempt. It returns ErrConnectFailed once every attempt is used.
func (g *CLIGate) Connect(ctx context.Context, profile string) error {
	args := []string{"connect"}
	if profile != "" {
		args = append(args, profile)
	}

	attempts := g.opts.Retries + 1
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if _, err := g.run(ctx, args...); err != nil {
			lastErr = err
			g.log.Warn("vpn connect command failed",
				logger.String("profile", profile),
				logger.Int("attempt", attempt),
				logger.Error(err))
		}

		if g.IsConnected(ctx) {
			if attempt > 1 {
				g.log.Warn("vpn connected after retry",
					logger.String("profile", profile),
					logger.Int("attempts", attempt))
			} else {
				g.log.Info("vpn connected", logger.String("profile", profile))
			}
			return nil
		}

		if attempt < attempts {
			if err := g.sleep(ctx, g.opts.RetryDelay); err != nil {
				return fmt.Errorf("%w: %s: %w", ErrConnectFailed, profile, err)
			}
		}
	}

	g.log.Error("vpn unavailable, giving up",
		logger.String("profile", profile),
		logger.Int("attempts", attempts))
	if lastErr != nil {
		return fmt.Errorf("%w: %s after %d attempts: %w", ErrConnectFailed, profile, attempts, lastErr)
	}
	return fmt.Errorf("%w: %s after %d attempts", ErrConnectFailed, profile, attempts)
}

func (g *CLIGate) Disconnect(ctx context.Context) error {
	if _, err := g.run(ctx, "disconnect"); err != nil {
		return fmt.Errorf("%w: %w", ErrDisconnectFailed, err)
	}
	st, err := g.Status(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDisconnectFailed, err)
	}
	if st.Connected {
		return fmt.Errorf("%w: still connected to %s", ErrDisconnectFailed, st.Hostname)
	}
	g.log.Info("vpn disconnected")
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
