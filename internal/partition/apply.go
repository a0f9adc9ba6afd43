package partition

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/Masterminds/semver"
	"github.com/sirupsen/logrus"

	"github.com/archsetup/arch-setup-utils/internal/planner"
)

// minimumSgdiskVersion is the oldest sgdisk release with stable -n/-t/-c semantics for this flow.
const minimumSgdiskVersion = "1.0.0"

// sgdiskVersionExp extracts the semantic version from sgdisk's version banner,
// e.g. "GPT fdisk (sgdisk) version 1.0.9".
var sgdiskVersionExp = regexp.MustCompile(`version ([0-9]+\.[0-9]+(?:\.[0-9]+)?)`)

// Apply writes the confirmed plan to its disk by performing the following operations:
//  1. Verify the installed sgdisk meets the minimum supported version.
//  2. Zap any existing GPT/MBR structures on the target disk.
//  3. Create one GPT partition per plan entry, in order; an entry that consumed
//     all remaining capacity extends to the end of the disk.
//  4. Format each partition by its role's filesystem convention.
//  5. Mount the root partition first, then the other mount points, then enable swap.
//
// Apply is only ever invoked with a plan the user confirmed at the summary gate.
func Apply(ctx context.Context, tool Tool, plan *planner.LayoutPlan) error {
	if plan == nil || len(plan.Entries) == 0 {
		return errors.New("no layout plan to apply")
	}

	if err := checkSgdiskVersion(ctx, tool); err != nil {
		return err
	}

	disk := plan.Disk.Path

	logrus.WithField("disk", disk).Info("Clearing existing partition tables...")
	out, err := tool.Zap(ctx, disk)
	logrus.WithField("out", out).Debug("Zap output")
	if err != nil {
		return fmt.Errorf("cannot clear partition table: %w", err)
	}

	for i, e := range plan.Entries {
		num := i + 1
		size := sizeArgument(e, i == len(plan.Entries)-1 && plan.Unallocated == 0)

		logrus.WithFields(logrus.Fields{
			"disk": disk,
			"num":  num,
			"role": e.Role.Name,
			"size": size,
		}).Info("Creating partition...")

		out, err := tool.AddPartition(ctx, disk, num, size, e.Role.Typecode, e.Role.Name)
		logrus.WithField("out", out).Debug("AddPartition output")
		if err != nil {
			return fmt.Errorf("cannot create %s partition: %w", e.Role.Name, err)
		}
	}

	if err := formatAll(ctx, tool, plan); err != nil {
		return err
	}

	return mountAll(ctx, tool, plan)
}

// checkSgdiskVersion parses sgdisk's version banner and rejects releases below the minimum.
func checkSgdiskVersion(ctx context.Context, tool Tool) error {
	banner, err := tool.SgdiskVersion(ctx)
	if err != nil {
		return fmt.Errorf("sgdisk is not usable: %w", err)
	}

	m := sgdiskVersionExp.FindStringSubmatch(banner)
	if m == nil {
		return fmt.Errorf("cannot parse sgdisk version from %q", strings.TrimSpace(banner))
	}

	version, err := semver.NewVersion(m[1])
	if err != nil {
		return fmt.Errorf("cannot parse sgdisk version %q: %w", m[1], err)
	}

	minimum := semver.MustParse(minimumSgdiskVersion)
	if version.LessThan(minimum) {
		return fmt.Errorf("sgdisk %s is older than the minimum supported %s", version, minimum)
	}

	logrus.WithField("version", version).Debug("sgdisk version accepted")
	return nil
}

// sizeArgument renders an entry's size in sgdisk's relative-size syntax.
// The final entry uses "0" (end of disk) when nothing was left unallocated, so
// the table always covers exactly what the plan promised.
func sizeArgument(e planner.Entry, toDiskEnd bool) string {
	if toDiskEnd {
		return "0"
	}

	// sgdisk sizes are KiB-granular at the finest; sector alignment absorbs any
	// sub-KiB remainder a byte-exact plan entry may carry.
	return fmt.Sprintf("+%dK", e.Bytes/1024)
}

// formatAll formats every partition by its role convention.
func formatAll(ctx context.Context, tool Tool, plan *planner.LayoutPlan) error {
	for i, e := range plan.Entries {
		node := PartitionNode(plan.Disk.Path, i+1)

		if e.Role.Kind == planner.KindCrypt {
			logrus.WithField("node", node).Info("Initializing encrypted volume...")
			out, err := tool.LuksFormat(ctx, node)
			logrus.WithField("out", out).Debug("LuksFormat output")
			if err != nil {
				return fmt.Errorf("cannot initialize encrypted volume: %w", err)
			}
			continue
		}

		logrus.WithFields(logrus.Fields{
			"node":   node,
			"fstype": e.Role.FSType,
		}).Info("Formatting partition...")
		out, err := tool.Format(ctx, node, e.Role.FSType)
		logrus.WithField("out", out).Debug("Format output")
		if err != nil {
			return fmt.Errorf("cannot format %s partition: %w", e.Role.Name, err)
		}
	}

	return nil
}

// mountAll mounts the root partition before any nested mount points, then the
// remaining mountable partitions in plan order, then enables swap.
func mountAll(ctx context.Context, tool Tool, plan *planner.LayoutPlan) error {
	mount := func(i int, e planner.Entry) error {
		node := PartitionNode(plan.Disk.Path, i+1)
		logrus.WithFields(logrus.Fields{
			"node":   node,
			"target": e.Role.MountPoint,
		}).Info("Mounting partition...")
		out, err := tool.Mount(ctx, node, e.Role.MountPoint)
		logrus.WithField("out", out).Debug("Mount output")
		if err != nil {
			return fmt.Errorf("cannot mount %s partition: %w", e.Role.Name, err)
		}
		return nil
	}

	for i, e := range plan.Entries {
		if e.Role.Kind == planner.KindRoot && e.Role.MountPoint != "" {
			if err := mount(i, e); err != nil {
				return err
			}
		}
	}

	for i, e := range plan.Entries {
		if e.Role.Kind == planner.KindRoot || e.Role.MountPoint == "" {
			continue
		}
		if err := mount(i, e); err != nil {
			return err
		}
	}

	for i, e := range plan.Entries {
		if e.Role.Kind != planner.KindSwap {
			continue
		}
		node := PartitionNode(plan.Disk.Path, i+1)
		logrus.WithField("node", node).Info("Enabling swap...")
		out, err := tool.EnableSwap(ctx, node)
		logrus.WithField("out", out).Debug("EnableSwap output")
		if err != nil {
			return fmt.Errorf("cannot enable swap: %w", err)
		}
	}

	return nil
}

// PartitionNode derives the device node for partition num on disk, following the
// kernel convention of inserting "p" when the disk name itself ends in a digit
// (e.g. /dev/nvme0n1 -> /dev/nvme0n1p1, /dev/sda -> /dev/sda1).
func PartitionNode(disk string, num int) string {
	runes := []rune(disk)
	if len(runes) > 0 && unicode.IsDigit(runes[len(runes)-1]) {
		return fmt.Sprintf("%sp%d", disk, num)
	}
	return fmt.Sprintf("%s%d", disk, num)
}
