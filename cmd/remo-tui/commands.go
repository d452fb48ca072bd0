package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/anyproto/remo-tui/internal/discovery"
	"github.com/anyproto/remo-tui/pkg/model"
)

var scanTimeout time.Duration

func init() {
	rootCmd.AddCommand(appliancesCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(versionCmd)

	discoverCmd.Flags().DurationVar(&scanTimeout, "scan-timeout", discovery.DefaultScanTimeout, "How long to listen for mDNS announcements")
}

var appliancesCmd = &cobra.Command{
	Use:   "appliances",
	Short: "List appliances without opening the dashboard",
	Example: `  # List appliances from the cloud
  remo-tui appliances

  # List appliances from a saved dump
  remo-tui appliances --file appliances.json.gz`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := setup(cmd)
		if err != nil {
			return err
		}
		defer logger.Sync()

		ctx, cancel := signalContext(cmd.Context(), logger)
		defer cancel()

		src := newSource()
		apps, err := src.FetchAppliances(ctx)
		if err != nil {
			return fmt.Errorf("fetching appliances from %s: %w", src.Name(), err)
		}

		writeAppliances(cmd.OutOrStdout(), apps)
		return nil
	},
}

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Show the account that owns the token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := setup(cmd)
		if err != nil {
			return err
		}
		defer logger.Sync()

		ctx, cancel := signalContext(cmd.Context(), logger)
		defer cancel()

		user, err := newCloudClient().GetUser(ctx)
		if err != nil {
			return fmt.Errorf("fetching user: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", user.Nickname, user.ID)
		return nil
	},
}

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List Remo devices with their newest sensor readings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := setup(cmd)
		if err != nil {
			return err
		}
		defer logger.Sync()

		ctx, cancel := signalContext(cmd.Context(), logger)
		defer cancel()

		devices, err := newCloudClient().GetDevices(ctx)
		if err != nil {
			return fmt.Errorf("fetching devices: %w", err)
		}

		writeDevices(cmd.OutOrStdout(), devices)
		return nil
	},
}

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Find Remo devices on the local network",
	Long: `Find Remo devices on the local network using mDNS/DNS-SD.

Every Remo with a local API announces itself as _remo._tcp.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := setup(cmd)
		if err != nil {
			return err
		}
		defer logger.Sync()

		ctx, cancel := signalContext(cmd.Context(), logger)
		defer cancel()

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Scanning for Remo devices (timeout: %s)...\n\n", scanTimeout)

		scanner := discovery.NewScanner()
		scanner.Timeout = scanTimeout
		devices, err := scanner.Scan(ctx)
		if err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}

		if len(devices) == 0 {
			fmt.Fprintln(out, "No devices found.")
			return nil
		}

		table := tablewriter.NewWriter(out)
		table.SetHeader([]string{"Instance", "Hostname", "Local API"})
		for _, d := range devices {
			table.Append([]string{d.Instance, d.Hostname, d.LocalURL()})
		}
		table.Render()
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "remo-tui %s (built %s)\n", version, buildTime)
	},
}

func writeAppliances(w io.Writer, apps []model.Appliance) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Nickname", "Type", "Device", "Signals", "ID"})
	for _, app := range apps {
		table.Append([]string{
			app.DisplayName(),
			string(app.Type),
			app.Device.Name,
			strconv.Itoa(len(app.Signals)),
			app.ID,
		})
	}
	table.Render()
}

func writeDevices(w io.Writer, devices []model.DeviceWithEvents) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Name", "Firmware", "Temperature", "Humidity", "Illumination"})
	for _, d := range devices {
		v := d.Sensor()
		table.Append([]string{
			d.Name,
			d.FirmwareVersion,
			fmt.Sprintf("%.1f°C", v.Temperature),
			fmt.Sprintf("%.0f%%", v.Humidity),
			fmt.Sprintf("%.0f", v.Illumination),
		})
	}
	table.Render()
}
