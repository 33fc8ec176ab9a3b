// Package discovery finds SSH servers on the local network with mDNS.
//
// Servers advertise themselves as "_ssh._tcp" services (avahi and most NAS
// firmware do this out of the box). The scanner browses for the configured
// service type until its timeout and returns one Server per instance name.
//
// # Usage Example
//
//	scanner := discovery.NewScanner()
//	servers, err := scanner.Scan(ctx)
//	if err != nil {
//	    return err
//	}
//	for _, srv := range servers {
//	    fmt.Println(srv)
//	}
//
// A discovered server can be copied into the device settings with Apply,
// which sets host and port and enables the entry without touching the
// stored credentials.
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Servers must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
package discovery
