/*
Copyright © 2025 Katie Mulliken <katie@mulliken.net>
*/
package cmd

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/seckatie/urlrota/internal/config"
	"github.com/seckatie/urlrota/internal/core"
	"github.com/seckatie/urlrota/internal/core/vpn"
	"github.com/seckatie/urlrota/internal/logger"
)

func TestOpenCmd_Flags(t *testing.T) {
	tests := []struct {
		name         string
		flagName     string
		defaultValue interface{}
		flagType     string
	}{
		{
			name:         "domain flag has correct default",
			flagName:     "domain",
			defaultValue: "",
			flagType:     "string",
		},
		{
			name:         "count flag has correct default",
			flagName:     "count",
			defaultValue: 20,
			flagType:     "int",
		},
		{
			name:         "order flag has correct default",
			flagName:     "order",
			defaultValue: "id",
			flagType:     "string",
		},
		{
			name:         "browser flag has correct default",
			flagName:     "browser",
			defaultValue: "",
			flagType:     "string",
		},
		{
			name:         "min-sleep flag has correct default",
			flagName:     "min-sleep",
			defaultValue: 20,
			flagType:     "int",
		},
		{
			name:         "max-sleep flag has correct default",
			flagName:     "max-sleep",
			defaultValue: 60,
			flagType:     "int",
		},
		{
			name:         "rotate-vpn flag has correct default",
			flagName:     "rotate-vpn",
			defaultValue: false,
			flagType:     "bool",
		},
		{
			name:         "dry-run flag has correct default",
			flagName:     "dry-run",
			defaultValue: false,
			flagType:     "bool",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var flag interface{}
			var err error

			switch tt.flagType {
			case "string":
				flag, err = openCmd.Flags().GetString(tt.flagName)
			case "int":
				flag, err = openCmd.Flags().GetInt(tt.flagName)
			case "bool":
				flag, err = openCmd.Flags().GetBool(tt.flagName)
			}

			if err != nil {
				t.Fatalf("Failed to get flag %s: %v", tt.flagName, err)
			}

			if flag != tt.defaultValue {
				t.Errorf("Flag %s: got %v, want %v", tt.flagName, flag, tt.defaultValue)
			}
		})
	}
}

func TestOpenCmd_CommandMetadata(t *testing.T) {
	if openCmd.Use != "open" {
		t.Errorf("Expected Use to be 'open', got %s", openCmd.Use)
	}

	if openCmd.Short == "" {
		t.Error("Expected Short description to be set")
	}
}

func TestOpenCmd_UsageOutput(t *testing.T) {
	var buf bytes.Buffer
	openCmd.SetOut(&buf)
	openCmd.SetErr(&buf)
	defer func() {
		openCmd.SetOut(nil)
		openCmd.SetErr(nil)
	}()

	if err := openCmd.Usage(); err != nil {
		t.Errorf("Usage() returned error: %v", err)
	}

	output := buf.String()
	expectedFlags := []string{"--domain", "--count", "--order", "--browser", "--min-sleep", "--max-sleep", "--rotate-vpn", "--export", "--dry-run"}
	for _, flag := range expectedFlags {
		if !strings.Contains(output, flag) {
			t.Errorf("Expected usage to mention %s", flag)
		}
	}
}

func TestOpenCmd_InheritsDBFlag(t *testing.T) {
	flag := openCmd.InheritedFlags().Lookup("db")
	if flag == nil {
		t.Error("Expected open command to inherit --db flag from root")
	}
}

func TestReadOpenOptions_ConfigDefaults(t *testing.T) {
	cfg := config.Default()
	cfg.Defaults.Browser = "firefox"
	cfg.Defaults.Domain = "news"
	cfg.Pacing.MinSeconds = 1
	cfg.Pacing.MaxSeconds = 2

	opts, err := readOpenOptions(openCmd, &app{cfg: cfg})
	if err != nil {
		t.Fatalf("readOpenOptions() error = %v", err)
	}
	if opts.browser != "firefox" || opts.domain != "news" {
		t.Errorf("Expected config browser/domain, got %q/%q", opts.browser, opts.domain)
	}
	if opts.count != cfg.Defaults.Count {
		t.Errorf("count = %d, want %d", opts.count, cfg.Defaults.Count)
	}
	if opts.pacing != (core.Pacing{MinSeconds: 1, MaxSeconds: 2}) {
		t.Errorf("pacing = %+v", opts.pacing)
	}
}

func TestReadOpenOptions_RequiresBrowser(t *testing.T) {
	cfg := config.Default()
	cfg.Defaults.Browser = ""

	_, err := readOpenOptions(openCmd, &app{cfg: cfg})
	if !errors.Is(err, core.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput without a browser, got %v", err)
	}
}

func TestPrintProgress(t *testing.T) {
	var buf bytes.Buffer
	progress := printProgress(&buf)

	item := core.BatchItem{ID: 3, URL: "https://example.com/a"}
	progress(core.RunEvent{Kind: core.EventItemStarted, Index: 0, Total: 2, Item: item})
	progress(core.RunEvent{
		Kind:   core.EventItemFinished,
		Index:  0,
		Total:  2,
		Item:   item,
		Result: &core.ItemResult{Item: item, Outcome: core.OutcomeLaunchFailed, Error: "boom"},
	})

	got := buf.String()
	if strings.Count(got, "\n") != 1 {
		t.Fatalf("Expected exactly one line, got %q", got)
	}
	for _, want := range []string{"[1/2]", core.OutcomeLaunchFailed, "https://example.com/a", "(boom)"} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected %q in %q", want, got)
		}
	}
}

type fakeGate struct {
	connectErr   error
	connects     []string
	disconnects  int
	disconnected bool
}

func (g *fakeGate) IsConnected(context.Context) bool { return !g.disconnected }

func (g *fakeGate) Status(context.Context) (vpn.Status, error) { return vpn.Status{}, nil }

func (g *fakeGate) Connect(_ context.Context, profile string) error {
	g.connects = append(g.connects, profile)
	return g.connectErr
}

func (g *fakeGate) Disconnect(ctx context.Context) error {
	g.disconnects++
	g.disconnected = true
	return ctx.Err()
}

func TestConnectVPN(t *testing.T) {
	t.Run("success leaves the tunnel up", func(t *testing.T) {
		g := &fakeGate{}
		if err := connectVPN(context.Background(), g, "us", logger.Nop()); err != nil {
			t.Fatalf("connectVPN() error = %v", err)
		}
		if len(g.connects) != 1 || g.connects[0] != "us" || g.disconnects != 0 {
			t.Errorf("unexpected calls: connects=%v disconnects=%d", g.connects, g.disconnects)
		}
	})

	t.Run("failure disconnects even after cancel", func(t *testing.T) {
		g := &fakeGate{connectErr: vpn.ErrConnectFailed}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := connectVPN(ctx, g, "us", logger.Nop())
		if !errors.Is(err, vpn.ErrConnectFailed) {
			t.Fatalf("expected ErrConnectFailed, got %v", err)
		}
		if g.disconnects != 1 {
			t.Errorf("expected one disconnect, got %d", g.disconnects)
		}
	})
}
