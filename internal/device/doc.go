// Package device assembles the terminal at boot.
//
// Paths maps the device's flash filesystem and key/value storage onto host
// directories. Context owns the blob stores, the configuration resolver,
// the settings store and the gateway client; the UI and the command shell
// receive it explicitly instead of reaching for globals.
package device
