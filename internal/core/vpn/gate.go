// Package vpn wraps the external VPN client behind a small Gate interface.
// All parsing of the client's human-readable output lives in ParseStatus.
package vpn

import (
	"context"
	"errors"
)

var (
	ErrConnectFailed    = errors.New("vpn connect failed")
	ErrDisconnectFailed = errors.New("vpn disconnect failed")
)

// Gate controls and reports on the VPN connection.
type Gate interface {
	// IsConnected is best effort and fails closed: any error reads as false.
	IsConnected(ctx context.Context) bool
	Status(ctx context.Context) (Status, error)
	// Connect connects using a server/profile code, retrying a bounded
	// number of times.
	Connect(ctx context.Context, profile string) error
	Disconnect(ctx context.Context) error
}

// AlwaysConnected is the Gate used when VPN checks are disabled.
type AlwaysConnected struct{}

func (AlwaysConnected) IsConnected(context.Context) bool { return true }

func (AlwaysConnected) Status(context.Context) (Status, error) {
	return Status{Connected: true, State: "Disabled"}, nil
}

func (AlwaysConnected) Connect(context.Context, string) error { return nil }

func (AlwaysConnected) Disconnect(context.Context) error { return nil }
