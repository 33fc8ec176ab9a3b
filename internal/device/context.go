package device

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/muurk/pagerterm/internal/blobstore"
	"github.com/muurk/pagerterm/internal/config"
	"github.com/muurk/pagerterm/internal/document"
	"github.com/muurk/pagerterm/internal/gateway"
	"github.com/muurk/pagerterm/internal/logging"
	"github.com/muurk/pagerterm/internal/menu"
	"github.com/muurk/pagerterm/internal/settings"
	"github.com/muurk/pagerterm/internal/sshclient"
	"github.com/muurk/pagerterm/internal/version"
)

// Context owns everything the terminal builds at boot. It is created once
// and passed explicitly to the UI and the command shell.
type Context struct {
	Blobs    blobstore.Store
	Secure   blobstore.Store
	Docs     document.Source
	Resolver *config.Resolver
	Settings *settings.Store
	Gateway  *gateway.Client
	SSH      *sshclient.Client

	mainPath string
	seed     *settings.Seed
}

// Option configures a Context.
type Option func(*Context)

// WithMainDocument overrides the main configuration document path.
func WithMainDocument(p string) Option {
	return func(c *Context) { c.mainPath = p }
}

// WithSeed replaces the factory seed used on settings reset.
func WithSeed(seed settings.Seed) Option {
	return func(c *Context) { c.seed = &seed }
}

// Open builds a Context backed by the host directories in p.
func Open(p Paths, opts ...Option) (*Context, error) {
	if err := p.EnsureDirs(); err != nil {
		return nil, err
	}

	files := blobstore.NewFileStore(p.Blobs())
	key, err := blobstore.LoadOrCreateKey(p.KeyFile())
	if err != nil {
		return nil, fmt.Errorf("failed to load secure store key: %w", err)
	}
	secure, err := blobstore.NewSecureStore(files, key)
	if err != nil {
		return nil, err
	}

	return New(files, secure, document.NewDirSource(p.FS()), opts...), nil
}

// New boots a Context over the given stores: it resolves the configuration,
// loads the settings record and prepares the gateway and SSH clients.
func New(blobs, secure blobstore.Store, docs document.Source, opts ...Option) *Context {
	c := &Context{
		Blobs:    blobs,
		Secure:   secure,
		Docs:     docs,
		mainPath: config.DefaultMainPath,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.Resolver = config.NewResolver(docs, secure)
	cfg := c.Resolver.Resolve(c.mainPath)

	var storeOpts []settings.Option
	if c.seed != nil {
		storeOpts = append(storeOpts, settings.WithSeed(*c.seed))
	}
	c.Settings = settings.NewStore(blobs, storeOpts...)
	c.Settings.Load()

	c.connectors(cfg)

	logging.Info("Device context ready",
		zap.String("main_document", c.mainPath),
		zap.Int("diagnostics", len(c.Resolver.Diagnostics())),
		zap.Bool("settings_recovered", c.Settings.LastRecovery() != nil),
	)
	return c
}

// Config returns the resolved configuration.
func (c *Context) Config() config.Config {
	return c.Resolver.Config()
}

// connectors rebuilds the clients that depend on the resolved configuration.
func (c *Context) connectors(cfg config.Config) {
	c.Gateway = gateway.NewClient(cfg.Gateway)
	c.SSH = sshclient.NewClient(cfg)
}

// Reload re-resolves the configuration and rebuilds the clients.
func (c *Context) Reload() config.Config {
	cfg := c.Resolver.Reload()
	c.connectors(cfg)
	return cfg
}

// LoadProfile applies a gateway profile and points the gateway client at
// the new endpoint. It reports whether the profile was applied.
func (c *Context) LoadProfile(name string) bool {
	if !c.Resolver.LoadProfile(name) {
		return false
	}
	c.connectors(c.Resolver.Config())
	logging.Info("Gateway endpoint changed", zap.String("profile", name), zap.String("url", c.Gateway.URL()))
	return true
}

// NewMenu creates a settings menu over the context's settings store. The
// connection tester and other collaborators come from opts.
func (c *Context) NewMenu(opts ...menu.Option) *menu.Engine {
	base := []menu.Option{
		menu.WithAbout(version.About()...),
	}
	return menu.New(c.Settings, append(base, opts...)...)
}

// PreferredServer returns the server the terminal should connect to: the
// remote one when preferred and enabled, otherwise the local one when
// enabled. ok is false when neither is enabled.
func (c *Context) PreferredServer() (srv settings.ServerConfig, ok bool) {
	s := c.Settings.Settings()
	switch {
	case s.PreferRemote && s.RemoteServer.Enabled:
		return s.RemoteServer, true
	case s.LocalServer.Enabled:
		return s.LocalServer, true
	case s.RemoteServer.Enabled:
		return s.RemoteServer, true
	default:
		return settings.ServerConfig{}, false
	}
}
