package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/archsetup/arch-setup-utils/internal/blockdev"
	"github.com/archsetup/arch-setup-utils/internal/contextual"
	"github.com/archsetup/arch-setup-utils/internal/partition"
	"github.com/archsetup/arch-setup-utils/internal/planner"
	"github.com/archsetup/arch-setup-utils/internal/system"
)

// partitionArgs is a struct for holding all information passed into the partition command.
type partitionArgs struct {
	encrypt     bool
	minDiskSize string
}

// partitionCommand creates a new command which interactively plans a disk layout
// and applies it to the selected disk.
func partitionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "partition",
		Short: "plan and apply a disk layout",
		Long: strings.TrimSpace(`
			partition walks through selecting a target disk and choosing a size for
			each partition (EFI, swap, root, home), then creates a GPT table, formats
			each partition, and mounts everything under /mnt. Nothing is written to
			the disk before the final confirmation.

			NOTE: the selected disk is wiped completely
		`),
	}

	args := partitionArgs{}
	cmd.PersistentFlags().BoolVar(&args.encrypt, "encrypt", false, "add an encrypted volume between root and home")
	cmd.PersistentFlags().StringVar(&args.minDiskSize, "min-disk-size", "10G", "smallest disk offered for selection (0 disables the gate)")

	cmd.PreRunE = assertRootPrivileges

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		host := contextual.Host(ctx)
		if host == nil {
			return errors.New("host scan required in context")
		}

		return runPartition(ctx, blockdev.GHWLister{}, &partition.ToolCmd{}, os.Stdin, os.Stdout, host, args)
	}

	return cmd
}

// runPartition discovers eligible disks, runs the interactive planner, and hands
// the confirmed plan to the partitioning tools.
func runPartition(ctx context.Context, lister blockdev.Lister, tool partition.Tool, in io.Reader, out io.Writer, host *system.Host, args partitionArgs) error {
	if host.Firmware != system.UEFI {
		return fmt.Errorf("host booted via %s firmware, only UEFI installs are supported", host.Firmware)
	}

	minSize, err := parseMinDiskSize(args.minDiskSize)
	if err != nil {
		return fmt.Errorf("invalid --min-disk-size: %w", err)
	}

	logrus.Info("Enumerating block devices...")
	devices, err := lister.List(ctx)
	if err != nil {
		return fmt.Errorf("cannot enumerate block devices: %w", err)
	}

	eligible, err := blockdev.Eligible(devices, blockdev.Filter{
		MinSizeBytes: minSize,
		ExcludeDisk:  host.LiveMediumDisk,
	})
	if err != nil {
		return err
	}
	logrus.WithField("count", len(eligible)).Debug("Eligible disks found")

	p, err := planner.New(in, out, planner.DefaultRoles(args.encrypt))
	if err != nil {
		return err
	}

	plan, err := p.Plan(eligible)
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"disk":       plan.Disk.Path,
		"partitions": len(plan.Entries),
	}).Info("Applying confirmed layout...")
	if err := partition.Apply(ctx, tool, plan); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"disk":        plan.Disk.Path,
		"unallocated": humanize.IBytes(plan.Unallocated),
	}).Info("Disk layout applied")

	return nil
}

// parseMinDiskSize reads the --min-disk-size value, where "0" (or empty) disables the gate.
func parseMinDiskSize(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return 0, nil
	}
	return planner.ParseSize(s)
}
