package config

import (
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/muurk/pagerterm/internal/blobstore"
	"github.com/muurk/pagerterm/internal/document"
	"github.com/muurk/pagerterm/internal/logging"
)

// Secure store keys. Values under SecureNamespace take precedence over
// anything read from documents.
const (
	SecureNamespace = "tlora_cfg"
	KeyWifiSSID     = "wifi_ssid"
	KeyWifiPassword = "wifi_pass"
	KeyLastProfile  = "last_profile"
)

// Document root sections.
const (
	rootConfig  = "config"
	rootProfile = "profile"
	rootTheme   = "theme"
	rootKeymap  = "keymap"
)

// Resolver builds the device Config from defaults, documents and the secure
// store. It is not safe for concurrent use; the device has a single event
// path and the resolver is only driven from it.
type Resolver struct {
	docs        document.Source
	secure      blobstore.Store
	profilesDir string

	mainPath string
	cfg      Config
	diags    []error
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithProfilesDir overrides the directory profile documents are read from.
func WithProfilesDir(dir string) Option {
	return func(r *Resolver) {
		r.profilesDir = document.NormalizePath(dir)
	}
}

// NewResolver returns a resolver holding the compiled-in defaults. secure may
// be nil on hosts without a secure store; secure operations then report a
// diagnostic and return false.
func NewResolver(docs document.Source, secure blobstore.Store, opts ...Option) *Resolver {
	r := &Resolver{
		docs:        docs,
		secure:      secure,
		profilesDir: DefaultProfilesDir,
		mainPath:    DefaultMainPath,
		cfg:         Defaults(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve rebuilds the configuration from scratch and returns it. It never
// fails: every absent or unparsable layer is skipped and recorded in
// Diagnostics.
//
// Precedence, lowest first: defaults, the main document, secure-store WiFi
// credentials, then the theme and keymap documents named by the result.
func (r *Resolver) Resolve(mainDocPath string) Config {
	if mainDocPath == "" {
		mainDocPath = DefaultMainPath
	}
	r.mainPath = document.NormalizePath(mainDocPath)
	r.cfg = Defaults()
	r.diags = nil

	if root, ok := r.readRoot(r.mainPath, rootConfig); ok {
		o := &overlay{path: r.mainPath}
		applyMain(o.root(root, ""), &r.cfg)
		r.collect(o)
		logging.LogDocument(r.mainPath, "applied")
	}

	r.loadSecureWifi()

	if r.cfg.UI.ThemeFile != "" {
		r.LoadTheme()
	}
	if r.cfg.Input.Keyboard.KeymapFile != "" {
		r.LoadKeymap()
	}

	return r.Config()
}

// Reload re-runs Resolve with the most recent main document path.
func (r *Resolver) Reload() Config {
	return r.Resolve(r.mainPath)
}

// Config returns a copy of the current configuration.
func (r *Resolver) Config() Config {
	return r.cfg.clone()
}

// Diagnostics returns the non-fatal problems found since the last Resolve.
func (r *Resolver) Diagnostics() []error {
	return append([]error(nil), r.diags...)
}

// readRoot reads and parses a document, returning its root section. Any
// failure is recorded and reported as !ok.
func (r *Resolver) readRoot(p, rootName string) (*document.Node, bool) {
	data, err := r.docs.Read(p)
	if err != nil {
		if errors.Is(err, document.ErrNotFound) {
			r.report(newAbsentError(p, err))
		} else {
			r.report(newInvalidError(p, err))
		}
		return nil, false
	}
	root, err := document.ParseRoot(data, rootName)
	if err != nil {
		r.report(newInvalidError(p, err))
		return nil, false
	}
	return root, true
}

func (r *Resolver) report(err *Error) {
	r.diags = append(r.diags, err)
	switch err.Type {
	case ErrTypeDocumentAbsent:
		logging.LogDocument(err.Path, "absent")
	default:
		logging.Warn("Configuration diagnostic",
			zap.String("type", err.Type.String()),
			zap.String("path", err.Path),
			zap.String("field", err.Field),
			zap.Error(err),
		)
	}
}

func (r *Resolver) collect(o *overlay) {
	for _, d := range o.diags {
		var cfgErr *Error
		if errors.As(d, &cfgErr) {
			r.report(cfgErr)
		}
	}
}

func applyMain(s section, cfg *Config) {
	wifi := s.sub("wifi")
	wifi.str("ssid", &cfg.Wifi.SSID)
	wifi.str("password", &cfg.Wifi.Password)

	applyGatewayEndpoint(s.sub("gateway"), &cfg.Gateway)
	gw := s.sub("gateway")
	uintField(gw, "connectTimeoutMs", &cfg.Gateway.ConnectTimeoutMs)
	uintField(gw, "reconnectDelayMs", &cfg.Gateway.ReconnectDelayMs)
	uintField(gw, "maxReconnectDelayMs", &cfg.Gateway.MaxReconnectDelayMs)
	uintField(gw, "pingIntervalMs", &cfg.Gateway.PingIntervalMs)

	term := s.sub("terminal")
	uintField(term, "cols", &cfg.Terminal.Cols)
	uintField(term, "rows", &cfg.Terminal.Rows)
	uintField(term, "scrollbackLines", &cfg.Terminal.ScrollbackLines)
	font := term.sub("font")
	font.str("name", &cfg.Terminal.FontName)
	uintField(font, "size", &cfg.Terminal.FontSize)

	kb := s.sub("input").sub("keyboard")
	kb.str("keymapFile", &cfg.Input.Keyboard.KeymapFile)
	uintField(kb, "debounceMs", &cfg.Input.Keyboard.DebounceMs)
	enc := s.sub("input").sub("encoder")
	enc.boolean("pressSendsEnter", &cfg.Input.Encoder.PressSendsEnter)
	enc.boolean("rotateScrollEnabled", &cfg.Input.Encoder.RotateScrollEnabled)
	uintField(enc, "rotateStepLines", &cfg.Input.Encoder.RotateStepLines)

	h := s.sub("haptics")
	h.boolean("enabled", &cfg.Haptics.Enabled)
	uintField(h, "keypressMs", &cfg.Haptics.KeypressMs)
	uintField(h, "bellMs", &cfg.Haptics.BellMs)

	ui := s.sub("ui")
	ui.boolean("statusBarEnabled", &cfg.UI.StatusBarEnabled)
	ui.str("themeFile", &cfg.UI.ThemeFile)

	l := s.sub("logging")
	uintField(l, "serialBaud", &cfg.Logging.SerialBaud)
	l.boolean("debugWebSocket", &cfg.Logging.DebugWebSocket)
	l.boolean("debugKeyboard", &cfg.Logging.DebugKeyboard)
}

// applyGatewayEndpoint overlays the fields a profile is allowed to change.
func applyGatewayEndpoint(s section, gw *GatewayConfig) {
	s.str("host", &gw.Host)
	uintField(s, "port", &gw.Port)
	s.str("path", &gw.Path)
	s.boolean("useSsl", &gw.UseSSL)
	s.str("sni", &gw.SNI)
}

// loadSecureWifi applies secure-store credentials when a non-empty SSID is
// stored. The stored password replaces the document one even when empty.
func (r *Resolver) loadSecureWifi() bool {
	if r.secure == nil {
		return false
	}
	ssid, err := blobstore.GetString(r.secure, SecureNamespace, KeyWifiSSID, "")
	if err != nil {
		r.report(newSecureError("failed to read wifi ssid", err))
		return false
	}
	if ssid == "" {
		return false
	}
	pass, err := blobstore.GetString(r.secure, SecureNamespace, KeyWifiPassword, "")
	if err != nil {
		r.report(newSecureError("failed to read wifi password", err))
		return false
	}
	r.cfg.Wifi.SSID = ssid
	r.cfg.Wifi.Password = pass
	logging.Info("WiFi credentials loaded from secure store", zap.String("ssid", ssid))
	return true
}

// SaveWifi stores credentials in the secure store and applies them to the
// current configuration.
func (r *Resolver) SaveWifi(ssid, password string) bool {
	if r.secure == nil {
		r.report(newSecureError("no secure store configured", nil))
		return false
	}
	if err := blobstore.PutString(r.secure, SecureNamespace, KeyWifiSSID, ssid); err != nil {
		r.report(newSecureError("failed to write wifi ssid", err))
		return false
	}
	if err := blobstore.PutString(r.secure, SecureNamespace, KeyWifiPassword, password); err != nil {
		r.report(newSecureError("failed to write wifi password", err))
		return false
	}
	r.cfg.Wifi.SSID = ssid
	r.cfg.Wifi.Password = password
	logging.Info("WiFi credentials saved to secure store", zap.String("ssid", ssid))
	return true
}

// LastProfile returns the name of the most recently loaded profile, or "".
func (r *Resolver) LastProfile() string {
	if r.secure == nil {
		return ""
	}
	name, err := blobstore.GetString(r.secure, SecureNamespace, KeyLastProfile, "")
	if err != nil {
		r.report(newSecureError("failed to read last profile", err))
		return ""
	}
	return name
}

// ClearSecure erases every value in the secure namespace. The current
// configuration is not changed until the next Resolve.
func (r *Resolver) ClearSecure() bool {
	if r.secure == nil {
		return false
	}
	if err := r.secure.Clear(SecureNamespace); err != nil {
		r.report(newSecureError("failed to clear secure store", err))
		return false
	}
	logging.Info("Secure store cleared")
	return true
}

// ProfilePath returns the document path of the named profile.
func (r *Resolver) ProfilePath(name string) string {
	return path.Join(r.profilesDir, name+DocumentExt)
}

// LoadProfile overlays the named profile's gateway endpoint onto the current
// configuration and records it as the last used profile. Only host, port,
// path, useSsl and sni can change.
func (r *Resolver) LoadProfile(name string) bool {
	if name == "" || strings.ContainsAny(name, `/\`) {
		r.report(newInvalidError(r.ProfilePath(name), fmt.Errorf("invalid profile name %q", name)))
		return false
	}
	p := r.ProfilePath(name)
	root, ok := r.readRoot(p, rootProfile)
	if !ok {
		return false
	}

	o := &overlay{path: p}
	applyGatewayEndpoint(o.root(root, rootProfile), &r.cfg.Gateway)
	r.collect(o)
	logging.LogDocument(p, "profile applied", zap.String("profile", name))

	if r.secure != nil {
		if err := blobstore.PutString(r.secure, SecureNamespace, KeyLastProfile, name); err != nil {
			r.report(newSecureError("failed to persist last profile", err))
		}
	}
	return true
}

// ListProfiles returns the profile names available in the profiles
// directory, sorted. A missing directory yields no profiles.
func (r *Resolver) ListProfiles() []string {
	files, err := r.docs.List(r.profilesDir)
	if err != nil {
		if !errors.Is(err, document.ErrNotFound) {
			logging.Warn("Failed to list profiles", zap.String("dir", r.profilesDir), zap.Error(err))
		}
		return nil
	}
	var names []string
	for _, f := range files {
		if strings.HasSuffix(f, DocumentExt) && len(f) > len(DocumentExt) {
			names = append(names, strings.TrimSuffix(f, DocumentExt))
		}
	}
	return names
}

// LoadTheme overlays the theme document named by ui.themeFile. On failure
// the theme keeps its previous value.
func (r *Resolver) LoadTheme() bool {
	if r.cfg.UI.ThemeFile == "" {
		return false
	}
	p := document.NormalizePath(r.cfg.UI.ThemeFile)
	root, ok := r.readRoot(p, rootTheme)
	if !ok {
		return false
	}

	o := &overlay{path: p}
	s := o.root(root, rootTheme)
	t := &r.cfg.Theme
	s.str("name", &t.Name)

	colors := s.sub("colors")
	colors.colour("bg", &t.Colors.Bg)
	colors.colour("fg", &t.Colors.Fg)
	colors.colour("muted", &t.Colors.Muted)
	colors.colour("ok", &t.Colors.OK)
	colors.colour("warn", &t.Colors.Warn)
	colors.colour("err", &t.Colors.Err)
	colors.colour("statusBg", &t.Colors.StatusBg)
	colors.colour("statusFg", &t.Colors.StatusFg)

	term := s.sub("terminal")
	cursor := term.sub("cursor")
	cursor.str("style", &t.Cursor.Style)
	cursor.boolean("blink", &t.Cursor.Blink)
	term.sub("selection").boolean("invert", &t.SelectionInvert)

	sb := s.sub("statusBar")
	uintField(sb, "heightPx", &t.StatusBar.HeightPx)
	sb.boolean("icons", &t.StatusBar.Icons)
	sb.boolean("showWifi", &t.StatusBar.ShowWifi)
	sb.boolean("showWebSocket", &t.StatusBar.ShowWebSocket)
	sb.boolean("showModifiers", &t.StatusBar.ShowModifiers)

	r.collect(o)
	logging.LogDocument(p, "theme applied", zap.String("theme", t.Name))
	return true
}

// LoadKeymap replaces the keymap with the document named by
// input.keyboard.keymapFile. Keys and modifiers are cleared only once the
// document has parsed.
func (r *Resolver) LoadKeymap() bool {
	if r.cfg.Input.Keyboard.KeymapFile == "" {
		return false
	}
	p := document.NormalizePath(r.cfg.Input.Keyboard.KeymapFile)
	root, ok := r.readRoot(p, rootKeymap)
	if !ok {
		return false
	}

	o := &overlay{path: p}
	km := &r.cfg.Keymap
	o.root(root, rootKeymap).str("name", &km.Name)
	km.Keys = nil
	km.Modifiers = nil

	if keys := root.Child("keys"); keys != nil {
		for i, item := range keys.Items {
			km.Keys = append(km.Keys, parseKey(o, i, item))
		}
	}
	if mods := root.Child("modifiers"); mods != nil {
		for i, item := range mods.Items {
			km.Modifiers = append(km.Modifiers, parseModifier(o, i, item))
		}
	}

	r.collect(o)
	logging.LogDocument(p, "keymap applied",
		zap.String("keymap", km.Name),
		zap.Int("keys", len(km.Keys)),
		zap.Int("modifiers", len(km.Modifiers)),
	)
	return true
}

func parseKey(o *overlay, i int, item *document.Node) KeyMapping {
	k := KeyMapping{Code: NoCode}
	k.ID, _ = item.Attr("id")
	k.Normal, _ = item.Attr("normal")
	k.Shift, _ = item.Attr("shift")
	if text, ok := item.Attr("code"); ok {
		code, err := strconv.Atoi(strings.TrimSpace(text))
		if err != nil {
			o.malformed(fmt.Sprintf("keymap.keys[%d].code", i), text, "invalid control code")
		} else {
			k.Code = code
		}
	}
	return k
}

func parseModifier(o *overlay, i int, item *document.Node) ModifierDef {
	m := ModifierDef{Mode: ModifierOneShot}
	m.ID, _ = item.Attr("id")
	if text, ok := item.Attr("mode"); ok {
		switch mode := ModifierMode(strings.TrimSpace(text)); mode {
		case ModifierOneShot, ModifierSticky:
			m.Mode = mode
		default:
			o.malformed(fmt.Sprintf("keymap.modifiers[%d].mode", i), text, "unknown modifier mode")
		}
	}
	return m
}
