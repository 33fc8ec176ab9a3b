// Package document reads the device's structured configuration documents.
//
// Documents are YAML files on the device filesystem. Each one has a single
// root section naming its purpose (config, profile, theme, keymap):
//
//	config:
//	  wifi:
//	    ssid: office
//	    password: ""
//	  gateway:
//	    host: 192.168.1.100
//	    port: 7681
//
// Parsing keeps presence information, which yaml.Unmarshal into a struct
// would lose: a key written with an empty or null value is present with empty
// text, while a key that is not written at all is absent. The configuration
// resolver depends on that distinction for field-granular overlays.
package document
