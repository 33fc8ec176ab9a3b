package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"
	"go.bug.st/serial"
	"go.uber.org/zap"

	"github.com/muurk/pagerterm/internal/device"
	"github.com/muurk/pagerterm/internal/logging"
	"github.com/muurk/pagerterm/internal/shell"
	"github.com/muurk/pagerterm/internal/ui"
)

// DefaultBaud is used when neither --baud nor the logging section sets a rate.
const DefaultBaud = 115200

// Console command flags
var (
	consolePort string
	consoleBaud int
	listPorts   bool
)

func init() {
	consoleCmd.Flags().StringVar(&consolePort, "port", "", "Serial port to serve the console on (default: stdin/stdout)")
	consoleCmd.Flags().IntVar(&consoleBaud, "baud", 0, "Baud rate (default: config logging.serialBaud or 115200)")
	consoleCmd.Flags().BoolVar(&listPorts, "list", false, "List serial ports and exit")

	rootCmd.AddCommand(consoleCmd)
}

// consoleCmd serves the configuration console
var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Run the configuration console",
	Long: `Run the text configuration console on a serial port or on stdin/stdout.

The console accepts the same verbs as the device's debug port: config,
profiles, profile <name>, wifi <ssid> <password>, reload, settings, reset,
help and exit. Lines may end in CR, LF or CRLF.`,
	Example: `  # Console on this terminal
  pagerterm console

  # Serve the console on a USB serial adapter
  pagerterm console --port /dev/ttyUSB0 --baud 115200

  # Show available ports
  pagerterm console --list`,
	Args: cobra.NoArgs,
	RunE: runConsole,
}

func runConsole(cmd *cobra.Command, args []string) error {
	if listPorts {
		return printPorts(cmd.OutOrStdout())
	}

	dev, err := openDevice()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if consolePort == "" {
		return shell.New(dev, cmd.OutOrStdout()).Run(ctx, cmd.InOrStdin())
	}

	baud := consoleBaud
	if baud == 0 {
		baud = int(dev.Config().Logging.SerialBaud)
	}
	if baud == 0 {
		baud = DefaultBaud
	}

	port, err := serial.Open(consolePort, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", consolePort, err)
	}
	defer port.Close()

	logging.Info("Console listening", zap.String("port", consolePort), zap.Int("baud", baud))
	fmt.Fprintln(cmd.ErrOrStderr(), ui.Info.Sprintf("Console on %s at %d baud, Ctrl+C to stop", consolePort, baud))

	// a blocked Read only returns once the port is closed
	go func() {
		<-ctx.Done()
		port.Close()
	}()

	err = shell.New(dev, crlfWriter{port}).Run(ctx, port)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func printPorts(out io.Writer) error {
	ports, err := serial.GetPortsList()
	if err != nil {
		return fmt.Errorf("failed to list serial ports: %w", err)
	}
	if len(ports) == 0 {
		fmt.Fprintln(out, ui.NewWarningResult("No serial ports found").Render())
		return nil
	}
	sort.Strings(ports)
	for _, p := range ports {
		fmt.Fprintln(out, ui.Path.Sprint(p))
	}
	return nil
}

// newShell returns a prompt-less shell for one-shot verbs run from the CLI.
func newShell(ctx *device.Context, cmd *cobra.Command) *shell.Shell {
	return shell.New(ctx, cmd.OutOrStdout(), shell.WithPrompt(""))
}

// crlfWriter expands LF to CRLF for serial terminals.
type crlfWriter struct {
	w io.Writer
}

func (c crlfWriter) Write(p []byte) (int, error) {
	if _, err := c.w.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))); err != nil {
		return 0, err
	}
	return len(p), nil
}
