package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jask/ynab4import/internal/config"
	"github.com/jask/ynab4import/internal/ynab4"
)

func RunDevices(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	ctx, _ := commandContext(cmd, cfg)

	devices, err := ynab4.ReadDeviceFolder(ctx, args[0])
	if err != nil {
		return err
	}
	selected, err := ynab4.SelectDevice(devices)
	if err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), renderDevices(ynab4.ScoreDevices(devices), ""))
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderDevices(ynab4.ScoreDevices(devices), selected.Path))
	return nil
}

func RunLocate(cmd *cobra.Command, args []string) error {
	dir, err := ynab4.LocateBudget(args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), dir)
	return nil
}
