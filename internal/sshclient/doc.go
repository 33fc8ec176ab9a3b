// Package sshclient opens SSH sessions to the local and remote server
// records of the device settings.
//
// Test performs the full handshake and password authentication and then
// disconnects. Dial additionally requests a PTY sized to the terminal and
// starts a login shell. Terminal devices keep no known_hosts store; the
// server's host key fingerprint is logged on every connection.
package sshclient
