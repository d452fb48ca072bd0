package discovery

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/grandcat/zeroconf"
)

const (
	// ServiceType is advertised by every Remo with a local API
	ServiceType = "_remo._tcp"

	ServiceDomain = "local."

	DefaultScanTimeout = 5 * time.Second

	DefaultPort = 80
)

// Scanner browses mDNS for Remo devices
type Scanner struct {
	Timeout time.Duration
}

// NewScanner creates a scanner with the default timeout
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// Scan collects devices until the timeout elapses or ctx is cancelled.
// Devices are deduplicated by instance and sorted by it.
func (s *Scanner) Scan(ctx context.Context) ([]*Device, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("creating mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	found := make(chan []*Device, 1)

	// The resolver closes entries once ctx is done
	go func() {
		seen := make(map[string]*Device)
		for entry := range entries {
			if device := parseServiceEntry(entry); device != nil {
				seen[device.Instance] = device
			}
		}
		devices := make([]*Device, 0, len(seen))
		for _, device := range seen {
			devices = append(devices, device)
		}
		sort.Slice(devices, func(i, j int) bool {
			return devices[i].Instance < devices[j].Instance
		})
		found <- devices
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("browsing for %s: %w", ServiceType, err)
	}

	<-ctx.Done()
	select {
	case devices := <-found:
		return devices, nil
	case <-time.After(time.Second):
		return nil, fmt.Errorf("mDNS resolver did not shut down")
	}
}

// parseServiceEntry returns nil for entries without a usable address
func parseServiceEntry(entry *zeroconf.ServiceEntry) *Device {
	if entry == nil || entry.HostName == "" {
		return nil
	}

	var ip string
	if len(entry.AddrIPv4) > 0 {
		ip = entry.AddrIPv4[0].String()
	} else if len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	instance := entry.Instance
	if instance == "" {
		instance = strings.TrimSuffix(strings.TrimSuffix(entry.HostName, "."), ".local")
	}

	metadata := make(map[string]string, len(entry.Text))
	for _, txt := range entry.Text {
		k, v, _ := strings.Cut(txt, "=")
		metadata[k] = v
	}

	return &Device{
		Instance:     instance,
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         port,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}
