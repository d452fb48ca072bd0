package discovery

import (
	"fmt"
	"time"
)

// Device is a Nature Remo found on the local network
type Device struct {
	// Instance is the advertised service instance (e.g., "Remo-1A2B3C")
	Instance string

	// Hostname is the mDNS hostname (e.g., "Remo-1A2B3C.local.")
	Hostname string

	// IP prefers IPv4 and falls back to IPv6
	IP string

	// Port is the local HTTP API port (typically 80)
	Port int

	// Metadata holds the TXT records
	Metadata map[string]string

	DiscoveredAt time.Time
}

func (d *Device) String() string {
	return fmt.Sprintf("%s (%s) at %s:%d", d.Instance, d.Hostname, d.IP, d.Port)
}

// LocalURL returns the base URL of the device's local HTTP API
func (d *Device) LocalURL() string {
	return fmt.Sprintf("http://%s:%d", d.IP, d.Port)
}
