// Package shell is the line-oriented configuration console.
//
// Each line is a verb and its arguments:
//
//	config                  show the resolved configuration
//	profiles                list gateway profiles
//	profile <name>          apply a gateway profile
//	wifi <ssid> <password>  save WiFi credentials to the secure store
//	reload                  re-read the configuration documents
//	settings                show the device settings
//	reset                   restore factory settings
//
// The password of the wifi verb is the rest of the line and may contain
// spaces. Secrets are never echoed back.
package shell
