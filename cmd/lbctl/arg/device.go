package arg

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	devicedto "github.com/LavaJover/little-brother/internal/usecase/dto/device"
	user2devicedto "github.com/LavaJover/little-brother/internal/usecase/dto/user2device"
)

func (c *cli) deviceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "device",
		Short: "Manage monitored devices and their users",
	}
	cmd.AddCommand(
		c.deviceAddCmd(),
		c.deviceDeleteCmd(),
		c.deviceListCmd(),
		c.deviceUpdateCmd(),
		c.deviceAssignCmd(),
		c.deviceUnassignCmd(),
		c.deviceMonitorCmd(),
	)
	return cmd
}

func (c *cli) deviceAddCmd() *cobra.Command {
	var pattern string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a device named after the first free number in the pattern",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, app *App, out io.Writer) error {
				device, err := app.UseCases.DeviceUsecase.AddNewDevice(ctx, &devicedto.CreateDeviceInput{NamePattern: pattern})
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Device %s added\n", device.DeviceName)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&pattern, "pattern", "device%d", "name pattern containing %d")
	return cmd
}

func (c *cli) deviceDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <device>",
		Short: "Delete a device",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, app *App, out io.Writer) error {
				if err := app.UseCases.DeviceUsecase.DeleteDevice(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(out, "Device %s deleted\n", args[0])
				return nil
			})
		},
	}
}

func (c *cli) deviceListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List devices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, app *App, out io.Writer) error {
				devices, err := app.UseCases.DeviceUsecase.Devices(ctx)
				if err != nil {
					return err
				}

				rows := make([]devicedto.Device, 0, len(devices))
				for _, d := range devices {
					rows = append(rows, devicedto.NewDevice(d))
				}

				if c.jsonOutput {
					return json.NewEncoder(out).Encode(rows)
				}

				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "DEVICE\tHOSTNAME\tUSERS")
				for _, r := range rows {
					fmt.Fprintf(tw, "%s\t%s\t%v\n", r.DeviceName, r.Hostname, r.Users)
				}
				return tw.Flush()
			})
		},
	}
}

func (c *cli) deviceUpdateCmd() *cobra.Command {
	var (
		name, hostname                     string
		minActivity, pingDelay, sampleSize int
	)

	cmd := &cobra.Command{
		Use:   "update <device>",
		Short: "Change the settings of a device",
		Long:  `Only flags given on the command line are changed.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, app *App, out io.Writer) error {
				device, err := app.UseCases.DeviceUsecase.GetByDeviceName(ctx, args[0])
				if err != nil {
					return err
				}

				input := &devicedto.UpdateDeviceInput{
					DeviceName:          device.DeviceName,
					Hostname:            device.Hostname,
					MinActivityDuration: device.MinActivityDuration,
					MaxActivePingDelay:  device.MaxActivePingDelay,
					SampleSize:          device.SampleSize,
				}

				flags := cmd.Flags()
				if flags.Changed("name") {
					input.NewDeviceName = name
				}
				if flags.Changed("hostname") {
					input.Hostname = hostname
				}
				if flags.Changed("min-activity") {
					input.MinActivityDuration = minActivity
				}
				if flags.Changed("ping-delay") {
					input.MaxActivePingDelay = pingDelay
				}
				if flags.Changed("sample-size") {
					input.SampleSize = sampleSize
				}

				if err := app.UseCases.DeviceUsecase.UpdateDevice(ctx, input); err != nil {
					return err
				}
				fmt.Fprintf(out, "Device %s updated\n", device.DeviceName)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new device name")
	cmd.Flags().StringVar(&hostname, "hostname", "", "hostname or address of the device")
	cmd.Flags().IntVar(&minActivity, "min-activity", 0, "minimum activity duration in seconds")
	cmd.Flags().IntVar(&pingDelay, "ping-delay", 0, "maximum ping delay in milliseconds for an active device")
	cmd.Flags().IntVar(&sampleSize, "sample-size", 0, "number of ping samples")
	return cmd
}

func (c *cli) deviceAssignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assign <username> <device>",
		Short: "Assign a device to a user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, app *App, out io.Writer) error {
				if _, err := app.UseCases.User2DeviceUsecase.AddUser2Device(ctx, assignInput(args)); err != nil {
					return err
				}
				fmt.Fprintf(out, "Device %s assigned to %s\n", args[1], args[0])
				return nil
			})
		},
	}
}

func (c *cli) deviceUnassignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unassign <username> <device>",
		Short: "Remove a device from a user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, app *App, out io.Writer) error {
				if err := app.UseCases.User2DeviceUsecase.DeleteUser2Device(ctx, assignInput(args)); err != nil {
					return err
				}
				fmt.Fprintf(out, "Device %s unassigned from %s\n", args[1], args[0])
				return nil
			})
		},
	}
}

func (c *cli) deviceMonitorCmd() *cobra.Command {
	var (
		active  bool
		percent int
	)

	cmd := &cobra.Command{
		Use:   "monitor <username> <device>",
		Short: "Switch monitoring of a user on a device",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, app *App, out io.Writer) error {
				err := app.UseCases.User2DeviceUsecase.UpdateUser2Device(ctx, &user2devicedto.UpdateUser2DeviceInput{
					Username:   args[0],
					DeviceName: args[1],
					Active:     active,
					Percent:    percent,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Monitoring of %s on %s set to %t (%d%%)\n", args[0], args[1], active, percent)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&active, "active", true, "whether the device counts as activity")
	cmd.Flags().IntVar(&percent, "percent", 100, "share of device time counted for the user")
	return cmd
}
