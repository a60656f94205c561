package discovery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/grandcat/zeroconf"
)

const (
	// ServiceType is the mDNS service type Moonraker advertises
	ServiceType = "_moonraker._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for printer discovery
	DefaultScanTimeout = 5 * time.Second

	// DefaultPort is the default Moonraker API port
	DefaultPort = 7125
)

// Scanner handles mDNS printer discovery
type Scanner struct {
	// Timeout is the maximum time to wait for discovery
	Timeout time.Duration
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// ScanForPrinters discovers Moonraker instances on the local network
// using the given scan window.
func ScanForPrinters(timeout time.Duration) ([]*Printer, error) {
	scanner := NewScanner()
	scanner.Timeout = timeout
	return scanner.ScanForPrinters()
}

// ScanForPrinters discovers all Moonraker instances on the local network.
func (s *Scanner) ScanForPrinters() ([]*Printer, error) {
	return s.ScanForPrintersWithContext(context.Background())
}

// ScanForPrintersWithContext discovers printers with a custom context.
func (s *Scanner) ScanForPrintersWithContext(ctx context.Context) ([]*Printer, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	printers := make([]*Printer, 0)

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for entry := range entries {
			printer := s.parseServiceEntry(entry)
			if printer != nil {
				printers = append(printers, printer)
			}
		}
	}()

	err = resolver.Browse(ctx, ServiceType, ServiceDomain, entries)
	if err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	// Browse closes the entries channel when the context expires
	<-ctx.Done()
	<-collected

	return printers, nil
}

// parseServiceEntry converts a zeroconf service entry to a Printer.
// Returns nil when the entry carries no usable address.
func (s *Scanner) parseServiceEntry(entry *zeroconf.ServiceEntry) *Printer {
	hostname := strings.TrimSuffix(entry.HostName, ".")
	if hostname == "" {
		return nil
	}

	// Prefer IPv4 addresses
	var ip string
	for _, addr := range entry.AddrIPv4 {
		ip = addr.String()
		break
	}
	if ip == "" {
		for _, addr := range entry.AddrIPv6 {
			ip = addr.String()
			break
		}
	}
	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		parts := strings.SplitN(txt, "=", 2)
		if len(parts) == 2 {
			metadata[parts[0]] = parts[1]
		}
	}

	return &Printer{
		Hostname:     hostname,
		IP:           ip,
		Port:         port,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}
