package vpn

import (
	"regexp"
	"strings"
)

// Status is what could be read from the VPN client's status report.
type Status struct {
	Connected  bool   `json:"connected"`
	State      string `json:"state"`
	Hostname   string `json:"hostname,omitempty"`
	IP         string `json:"ip,omitempty"`
	Country    string `json:"country,omitempty"`
	City       string `json:"city,omitempty"`
	Technology string `json:"technology,omitempty"`
	Protocol   string `json:"protocol,omitempty"`
	Uptime     string `json:"uptime,omitempty"`
}

var (
	// Status lines may be prefixed by spinner characters ("-", "\", "|", "/")
	// and carriage returns from the client's progress output.
	statusLine = regexp.MustCompile(`(?m)^[\s\-\\|/\r]*Status:\s*([A-Za-z]+)\s*$`)
	fieldLine  = regexp.MustCompile(`(?m)^\s*(Hostname|Server IP|IP|Country|City|Current technology|Current protocol|Uptime):\s*(.+?)\s*$`)
)

// ParseStatus reads the output of `nordvpn status`. Connected is true only
// when a Status line reads exactly "Connected"; anything else, including
// output that cannot be parsed, reads as not connected.
func ParseStatus(output string) Status {
	output = strings.ReplaceAll(output, "\r\n", "\n")

	m := statusLine.FindStringSubmatch(output)
	if m == nil {
		return Status{State: "Unknown"}
	}
	s := Status{State: m[1], Connected: m[1] == "Connected"}
	if !s.Connected {
		return s
	}

	for _, f := range fieldLine.FindAllStringSubmatch(output, -1) {
		switch f[1] {
		case "Hostname":
			s.Hostname = f[2]
		case "IP", "Server IP":
			s.IP = f[2]
		case "Country":
			s.Country = f[2]
		case "City":
			s.City = f[2]
		case "Current technology":
			s.Technology = f[2]
		case "Current protocol":
			s.Protocol = f[2]
		case "Uptime":
			s.Uptime = f[2]
		}
	}
	return s
}

// String renders the status the way the CLI prints it.
func (s Status) String() string {
	if !s.Connected {
		return "Status: " + s.State
	}
	var b strings.Builder
	b.WriteString("Status: Connected")
	for _, kv := range [][2]string{
		{"Hostname", s.Hostname},
		{"IP", s.IP},
		{"Country", s.Country},
		{"City", s.City},
		{"Technology", s.Technology},
		{"Protocol", s.Protocol},
		{"Uptime", s.Uptime},
	} {
		if kv[1] != "" {
			b.WriteString("\n" + kv[0] + ": " + kv[1])
		}
	}
	return b.String()
}
