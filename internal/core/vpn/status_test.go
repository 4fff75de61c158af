package vpn

import "testing"

const connectedOutput = "\r-\r  \r\nStatus: Connected\nHostname: de1234.nordvpn.com\nIP: 185.1.2.3\nCountry: Germany\nCity: Frankfurt\nCurrent technology: NORDLYNX\nCurrent protocol: UDP\nTransfer: 1.2 MiB received, 300 KiB sent\nUptime: 5 minutes 2 seconds\n"

func TestParseStatus(t *testing.T) {
	tests := []struct {
		name      string
		output    string
		connected bool
		state     string
	}{
		{"connected", connectedOutput, true, "Connected"},
		{"disconnected", "Status: Disconnected\n", false, "Disconnected"},
		{"connecting", "Status: Connecting\n", false, "Connecting"},
		{"empty", "", false, "Unknown"},
		{"garbage", "nordvpn: command not found\n", false, "Unknown"},
		{"word without status line", "You are not Connected yet\n", false, "Unknown"},
		{"trailing text", "Status: Connected to nowhere\n", false, "Unknown"},
		{"windows line endings", "Status: Connected\r\nCountry: Spain\r\n", true, "Connected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ParseStatus(tt.output)
			if s.Connected != tt.connected {
				t.Errorf("Connected = %v, want %v", s.Connected, tt.connected)
			}
			if s.State != tt.state {
				t.Errorf("State = %q, want %q", s.State, tt.state)
			}
		})
	}
}

func TestParseStatus_Fields(t *testing.T) {
	s := ParseStatus(connectedOutput)

	want := Status{
		Connected:  true,
		State:      "Connected",
		Hostname:   "de1234.nordvpn.com",
		IP:         "185.1.2.3",
		Country:    "Germany",
		City:       "Frankfurt",
		Technology: "NORDLYNX",
		Protocol:   "UDP",
		Uptime:     "5 minutes 2 seconds",
	}
	if s != want {
		t.Errorf("got %+v\nwant %+v", s, want)
	}
}

func TestStatusString(t *testing.T) {
	if got := (Status{State: "Disconnected"}).String(); got != "Status: Disconnected" {
		t.Errorf("unexpected string %q", got)
	}
	got := Status{Connected: true, State: "Connected", Hostname: "h", City: "c"}.String()
	if got != "Status: Connected\nHostname: h\nCity: c" {
		t.Errorf("unexpected string %q", got)
	}
}
