package discovery

import (
	"fmt"
	"time"
)

// Printer is a Moonraker instance discovered on the local network.
type Printer struct {
	// Hostname is the mDNS hostname (e.g., "voron24.local")
	Hostname string

	// IP is the IPv4 address (e.g., "192.168.1.42")
	IP string

	// Port is the Moonraker API port (typically 7125)
	Port int

	// Metadata contains additional mDNS TXT record data
	Metadata map[string]string

	// DiscoveredAt is when the printer was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the printer.
func (p *Printer) String() string {
	return fmt.Sprintf("Moonraker at %s (%s:%d)", p.Hostname, p.IP, p.Port)
}

// Address returns the host:port pair to connect to. The IP is preferred
// over the mDNS hostname since not every resolver handles .local names.
func (p *Printer) Address() string {
	return fmt.Sprintf("%s:%d", p.IP, p.Port)
}

// GetMetadata retrieves a TXT record value by key, or returns empty
// string if not found.
func (p *Printer) GetMetadata(key string) string {
	if p.Metadata == nil {
		return ""
	}
	return p.Metadata[key]
}
