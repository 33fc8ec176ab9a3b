// Package config resolves the terminal's boot configuration.
//
// A Config is built by layering, lowest precedence first:
//
//  1. compiled-in defaults (Defaults)
//  2. the main document, /config/pagerterm.yaml by default
//  3. WiFi credentials from the secure store, when a non-empty SSID is stored
//  4. the theme and keymap documents named by ui.themeFile and
//     input.keyboard.keymapFile
//
// Each document layer is field granular: only the fields written in the
// document change. An absent document, a parse failure or a malformed field
// never stops resolution; the affected layer or field is skipped and a
// *Error is added to Resolver.Diagnostics.
//
// Gateway profiles under /config/profiles are applied only when asked for
// with Resolver.LoadProfile, which overwrites the gateway endpoint and records
// the profile name in the secure store.
//
// # Document Format
//
//	config:
//	  wifi:
//	    ssid: office
//	    password: ""        # present and empty: explicit empty password
//	  gateway:
//	    host: 10.0.0.5
//	    port: 7681
//	    useSsl: true
//	  ui:
//	    themeFile: /config/themes/amber.yaml
//
// Theme colours are written as r, g, b components:
//
//	theme:
//	  name: amber
//	  colors:
//	    fg: {r: 255, g: 191, b: 0}
//
// # Secure Store
//
// The secure namespace "tlora_cfg" holds wifi_ssid, wifi_pass and
// last_profile. Callers normally pass a blobstore.SecureStore so these values
// are encrypted at rest.
package config
