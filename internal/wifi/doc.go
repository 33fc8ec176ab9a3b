// Package wifi scans for nearby WiFi networks for the settings menu.
//
// On a Linux host the scan is delegated to NetworkManager's nmcli. The
// scanner satisfies menu.Scanner: StartScan is fire-and-forget and Results
// may be polled any number of times while the scan is outstanding.
package wifi
