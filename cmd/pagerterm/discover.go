package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"github.com/muurk/pagerterm/internal/discovery"
	"github.com/muurk/pagerterm/internal/settings"
	"github.com/muurk/pagerterm/internal/ui"
)

// Discover command flags
var (
	scanTimeout int
	serviceType string
	applyTarget string
	instance    string
)

func init() {
	discoverCmd.Flags().IntVar(&scanTimeout, "timeout", 5, "Scan timeout in seconds")
	discoverCmd.Flags().StringVar(&serviceType, "service", discovery.ServiceSSH, "mDNS service type to browse for")
	discoverCmd.Flags().StringVar(&applyTarget, "apply", "", "Store a found server as the local or remote server (local, remote)")
	discoverCmd.Flags().StringVar(&instance, "instance", "", "Server instance to apply (default: first found)")

	rootCmd.AddCommand(discoverCmd)
}

// discoverCmd finds SSH servers on the local network
var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Find SSH servers on the network",
	Long: `Browse mDNS for SSH servers and list them.

With --apply the chosen server's address is written to the local or remote
server entry of the device settings and that entry is enabled. Usernames and
passwords are kept.`,
	Example: `  # List servers
  pagerterm discover

  # Use the first server found as the local server
  pagerterm discover --apply local

  # Use a specific instance as the remote server
  pagerterm discover --apply remote --instance build-box`,
	Args: cobra.NoArgs,
	RunE: runDiscover,
}

func runDiscover(cmd *cobra.Command, args []string) error {
	target, err := serverSlot(applyTarget)
	if err != nil {
		return err
	}

	scanner := discovery.NewScanner()
	scanner.Timeout = time.Duration(scanTimeout) * time.Second
	scanner.Service = serviceType

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Writer = cmd.ErrOrStderr()
	s.Suffix = fmt.Sprintf(" Browsing for %s servers (%ds)...", serviceType, scanTimeout)
	s.Start()

	var servers []*discovery.Server
	if instance != "" {
		var srv *discovery.Server
		srv, err = scanner.Find(cmd.Context(), instance)
		if srv != nil {
			servers = []*discovery.Server{srv}
		}
	} else {
		servers, err = scanner.Scan(cmd.Context())
	}
	s.Stop()

	out := cmd.OutOrStdout()
	if err != nil && !errorsIsDeadline(err) {
		return fmt.Errorf("discovery failed: %w", err)
	}

	if len(servers) == 0 {
		fmt.Fprintln(out, ui.NewWarningResult("No servers found").Render())
		fmt.Fprintln(out, "Troubleshooting:")
		fmt.Fprintln(out, "  - Check the server advertises "+serviceType+" (avahi, Bonjour)")
		fmt.Fprintln(out, "  - Make sure this machine is on the same network segment")
		fmt.Fprintln(out, "  - Try increasing --timeout for slower networks")
		return nil
	}

	fmt.Fprintf(out, "Found %d server(s):\n\n", len(servers))
	for i, srv := range servers {
		fmt.Fprintf(out, "%d. %s\n", i+1, ui.Highlight.Sprint(srv.Instance))
		fmt.Fprintf(out, "   Host:    %s\n", srv.Hostname)
		fmt.Fprintf(out, "   Address: %s\n", srv.Address())
		if len(srv.Metadata) > 0 {
			fmt.Fprintf(out, "   Metadata: %v\n", srv.Metadata)
		}
		fmt.Fprintln(out)
	}

	if target == nil {
		return nil
	}
	return applyServer(cmd, servers[0], target)
}

// serverSlot selects the settings entry named by --apply. Nil means none.
func serverSlot(name string) (func(*settings.DeviceSettings) *settings.ServerConfig, error) {
	switch name {
	case "":
		return nil, nil
	case "local":
		return func(s *settings.DeviceSettings) *settings.ServerConfig { return &s.LocalServer }, nil
	case "remote":
		return func(s *settings.DeviceSettings) *settings.ServerConfig { return &s.RemoteServer }, nil
	default:
		return nil, fmt.Errorf("unknown --apply target %q (use local or remote)", name)
	}
}

func applyServer(cmd *cobra.Command, srv *discovery.Server, slot func(*settings.DeviceSettings) *settings.ServerConfig) error {
	ctx, err := openDevice()
	if err != nil {
		return err
	}

	entry := slot(ctx.Settings.Settings())
	srv.Apply(entry)
	if err := ctx.Settings.Save(); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), ui.NewSuccessResult("Server stored as "+applyTarget+" server",
		ui.Field{Key: "Instance", Value: srv.Instance},
		ui.Field{Key: "Address", Value: srv.Address()},
		ui.Field{Key: "Username", Value: orNone(entry.Username)},
	).Render())
	return nil
}

func errorsIsDeadline(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}
