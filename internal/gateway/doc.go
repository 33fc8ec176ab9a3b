// Package gateway connects the terminal to a WebSocket terminal gateway
// (ttyd, websockify, or a pagerterm relay in front of an SSH server).
//
// The endpoint and its timing come from the gateway section of the resolved
// configuration, so loading a gateway profile changes where Dial connects:
// ws://host:port/path, or wss:// when SSL is enabled, with an optional TLS
// server name.
package gateway
