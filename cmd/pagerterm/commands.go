package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/pagerterm/internal/config"
	"github.com/muurk/pagerterm/internal/logging"
	"github.com/muurk/pagerterm/internal/tui"
	"github.com/muurk/pagerterm/internal/ui"
)

// Command flags
var (
	autoConnect  bool
	startProfile string
	outputFormat string
	assumeYes    bool
)

func init() {
	rootCmd.Flags().BoolVar(&autoConnect, "auto-connect", false, "Connect to the preferred server on start")
	rootCmd.Flags().StringVar(&startProfile, "profile", "", "Apply a gateway profile before starting")

	configShowCmd.Flags().StringVar(&outputFormat, "format", "summary", "Output format (summary, yaml)")
	configCmd.AddCommand(configShowCmd)

	secureClearCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the confirmation prompt")
	secureCmd.AddCommand(secureClearCmd)

	wifiCmd.AddCommand(wifiSetCmd)

	settingsResetCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the confirmation prompt")
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsResetCmd)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(profilesCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(wifiCmd)
	rootCmd.AddCommand(secureCmd)
	rootCmd.AddCommand(settingsCmd)
}

// runCmd starts the terminal UI
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the terminal UI",
	Long: `Start the full-screen terminal with its settings menu.

Press Ctrl+S for settings, Ctrl+O to connect to the preferred server and
Ctrl+Q to quit. Choosing Restart in the System menu reboots the device
context with freshly loaded configuration.`,
	Example: `  # Start the terminal
  pagerterm run

  # Apply the lab profile and connect straight away
  pagerterm run --profile lab --auto-connect`,
	RunE: runTerminal,
}

func init() {
	runCmd.Flags().AddFlagSet(rootCmd.Flags())
}

func runTerminal(cmd *cobra.Command, args []string) error {
	for {
		ctx, err := openDevice()
		if err != nil {
			return err
		}
		if startProfile != "" && !ctx.LoadProfile(startProfile) {
			return fmt.Errorf("profile %q could not be applied", startProfile)
		}

		result, err := tui.Run(ctx, tui.Options{AutoConnect: autoConnect})
		if err != nil {
			return err
		}
		if !result.Restart {
			return nil
		}
		logging.Info("Restarting terminal")
	}
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the resolved configuration",
}

// configShowCmd prints the effective configuration
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the resolved configuration",
	Long: `Resolve the configuration documents and the secure store, then print
the effective configuration. The WiFi password is always masked.

Problems found while resolving (missing documents, malformed fields) are
listed after the configuration; defaults were used for those fields.`,
	Example: `  # Human readable summary
  pagerterm config show

  # YAML for scripting
  pagerterm config show --format yaml`,
	RunE: runConfigShow,
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	ctx, err := openDevice()
	if err != nil {
		return err
	}
	cfg := ctx.Config()
	out := cmd.OutOrStdout()

	switch outputFormat {
	case "yaml":
		data, err := cfg.MarshalMasked()
		if err != nil {
			return err
		}
		fmt.Fprint(out, string(data))
		return nil
	case "summary":
	default:
		return fmt.Errorf("unknown format %q (use summary or yaml)", outputFormat)
	}

	fmt.Fprintln(out, ui.NewHeader("Device configuration", "pagerterm config show",
		ui.Field{Key: "Document", Value: mainDoc},
		ui.Field{Key: "Last profile", Value: orNone(ctx.Resolver.LastProfile())},
	).Render())
	fmt.Fprintln(out)
	fmt.Fprint(out, cfg.Summary())

	if diags := ctx.Resolver.Diagnostics(); len(diags) > 0 {
		warning := ui.NewWarningResult(fmt.Sprintf("%d problem(s) while resolving", len(diags)))
		for _, d := range diags {
			key := "Problem"
			if ce, ok := d.(*config.Error); ok {
				key = ce.Type.String()
			}
			warning.AddDetail(key, d.Error())
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, warning.Render())
	}
	return nil
}

// profilesCmd lists gateway profiles
var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List gateway profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := openDevice()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		names := ctx.Resolver.ListProfiles()
		if len(names) == 0 {
			fmt.Fprintln(out, "No profiles found in", ui.Path.Sprint(config.DefaultProfilesDir))
			return nil
		}
		last := ctx.Resolver.LastProfile()
		for _, name := range names {
			if name == last {
				fmt.Fprintln(out, ui.Highlight.Sprint(name), ui.Muted.Sprint("last used"))
			} else {
				fmt.Fprintln(out, ui.Highlight.Sprint(name))
			}
		}
		return nil
	},
}

// profileCmd applies a gateway profile and remembers it
var profileCmd = &cobra.Command{
	Use:   "profile <name>",
	Short: "Apply a gateway profile",
	Long: `Overlay the named profile's gateway endpoint onto the configuration and
record it as the last used profile in the secure store.`,
	Example: `  pagerterm profile lab`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := openDevice()
		if err != nil {
			return err
		}
		name := args[0]
		if !ctx.LoadProfile(name) {
			diags := ctx.Resolver.Diagnostics()
			var cause error
			if len(diags) > 0 {
				cause = diags[len(diags)-1]
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.NewFailureResult("Profile "+name+" not applied", cause,
				"Run 'pagerterm profiles' to list available profiles",
				"Profiles live in "+ctx.Resolver.ProfilePath(name),
			).Render())
			return fmt.Errorf("profile %q not applied", name)
		}

		fmt.Fprintln(cmd.OutOrStdout(), ui.NewSuccessResult("Profile applied",
			ui.Field{Key: "Profile", Value: name},
			ui.Field{Key: "Gateway", Value: ctx.Gateway.URL()},
		).Render())
		return nil
	},
}

var wifiCmd = &cobra.Command{
	Use:   "wifi",
	Short: "Manage boot WiFi credentials",
}

// wifiSetCmd stores WiFi credentials in the secure store
var wifiSetCmd = &cobra.Command{
	Use:   "set <ssid>",
	Short: "Save WiFi credentials to the secure store",
	Long: `Save the boot WiFi network to the encrypted secure store. The password is
read without echo from the terminal, or as one line from a pipe. Stored
credentials take precedence over the main document on the next start.`,
	Example: `  pagerterm wifi set home-network
  echo "s3cret" | pagerterm wifi set home-network`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := openDevice()
		if err != nil {
			return err
		}
		password, err := ui.ReadSecret(cmd.InOrStdin(), cmd.OutOrStdout(), "Password for "+args[0]+": ")
		if err != nil {
			return err
		}
		if !ctx.Resolver.SaveWifi(args[0], password) {
			return fmt.Errorf("failed to save WiFi credentials")
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.NewSuccessResult("WiFi credentials saved",
			ui.Field{Key: "SSID", Value: args[0]},
			ui.Field{Key: "Applies", Value: "next start"},
		).Render())
		return nil
	},
}

var secureCmd = &cobra.Command{
	Use:   "secure",
	Short: "Manage the encrypted secure store",
}

// secureClearCmd erases stored WiFi credentials and the last profile
var secureClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Erase stored WiFi credentials and the last profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := openDevice()
		if err != nil {
			return err
		}
		if !assumeYes && !ui.ConfirmDangerousOperation(cmd.InOrStdin(), cmd.OutOrStdout(), "CLEAR SECURE STORE",
			[]string{
				"Stored WiFi credentials will be erased",
				"The last used profile will be forgotten",
				"The main document's WiFi settings apply on the next start",
			}, "CLEAR") {
			return nil
		}
		if !ctx.Resolver.ClearSecure() {
			return fmt.Errorf("failed to clear secure store")
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.NewSuccessResult("Secure store cleared").Render())
		return nil
	},
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Inspect or reset the device settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the device settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShellVerb(cmd, "settings")
	},
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore factory settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !assumeYes && !ui.ConfirmDangerousOperation(cmd.InOrStdin(), cmd.OutOrStdout(), "SETTINGS RESET",
			[]string{
				"Display, sound and haptic settings return to factory values",
				"Saved WiFi networks and server entries are replaced by the factory list",
			}, "RESET") {
			return nil
		}
		return runShellVerb(cmd, "reset")
	},
}

// runShellVerb runs one console verb against a freshly opened device.
func runShellVerb(cmd *cobra.Command, line string) error {
	ctx, err := openDevice()
	if err != nil {
		return err
	}
	logging.Debug("Running console verb from CLI", zap.String("line", line))
	return newShell(ctx, cmd).Execute(line)
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
