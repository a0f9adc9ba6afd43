// Package blockdev provides the functionality necessary for enumerating the host's block devices
// and filtering them down to disks that are safe install targets.
package blockdev

//go:generate mockgen -destination mocks/mock_blockdev.go github.com/archsetup/arch-setup-utils/internal/blockdev Lister

import (
	"context"
	"errors"
	"strings"

	"github.com/jaypipes/ghw"
	"github.com/jaypipes/ghw/pkg/block"
)

// ErrNoEligibleDisk identifies the terminal condition where enumeration left no usable install target.
var ErrNoEligibleDisk = errors.New("no eligible disk found")

// Device represents a candidate whole-disk install target.
type Device struct {
	// Path is the device node (e.g. /dev/nvme0n1).
	Path string
	// Name is the kernel device name (e.g. nvme0n1).
	Name string
	// SizeBytes is the total capacity of the device.
	SizeBytes uint64
	// Model is the vendor-reported model string, empty when unknown.
	Model string
	// Vendor is the vendor string, empty when unknown.
	Vendor string
	// Removable marks devices the kernel reports as removable media.
	Removable bool
	// SolidState marks non-rotational devices.
	SolidState bool
}

// Lister outlines the functionality necessary for enumerating the host's physical disks.
type Lister interface {
	// List fetches every whole disk visible on the host.
	List(ctx context.Context) ([]Device, error)
}

// GHWLister implements Lister on top of ghw's block subsystem.
type GHWLister struct{}

func (GHWLister) List(ctx context.Context) ([]Device, error) {
	info, err := ghw.Block()
	if err != nil {
		return nil, err
	}

	devices := make([]Device, 0, len(info.Disks))
	for _, d := range info.Disks {
		devices = append(devices, Device{
			Path:       "/dev/" + d.Name,
			Name:       d.Name,
			SizeBytes:  d.SizeBytes,
			Model:      cleanGHWString(d.Model),
			Vendor:     cleanGHWString(d.Vendor),
			Removable:  d.IsRemovable,
			SolidState: d.DriveType == block.DRIVE_TYPE_SSD,
		})
	}

	return devices, nil
}

// Type assertion to ensure GHWLister implements the Lister interface.
var _ Lister = (*GHWLister)(nil)

// cleanGHWString normalizes ghw's "unknown" placeholder to an empty string.
func cleanGHWString(s string) string {
	if strings.EqualFold(s, "unknown") {
		return ""
	}
	return strings.TrimSpace(s)
}

// Filter defines the eligibility rules applied on top of raw enumeration.
type Filter struct {
	// MinSizeBytes rejects disks below the threshold, 0 disables the gate.
	MinSizeBytes uint64
	// ExcludeDisk is a device node that must never be offered, typically the live boot medium.
	ExcludeDisk string
}

// excludedPrefixes covers kernel names that are never valid install targets:
// loopbacks, ramdisks, optical drives, device-mapper and software-RAID nodes.
var excludedPrefixes = []string{"loop", "ram", "zram", "sr", "dm-", "md"}

// excludedSuffixes covers eMMC hardware sub-partitions (boot areas and the replay protected block).
var excludedSuffixes = []string{"boot0", "boot1", "rpmb"}

// Eligible filters devices down to valid install targets. An empty result is returned
// as ErrNoEligibleDisk since planning cannot proceed without a target.
func Eligible(devices []Device, filter Filter) ([]Device, error) {
	eligible := make([]Device, 0, len(devices))
	for _, d := range devices {
		if !eligibleDevice(d, filter) {
			continue
		}
		eligible = append(eligible, d)
	}

	if len(eligible) == 0 {
		return nil, ErrNoEligibleDisk
	}

	return eligible, nil
}

func eligibleDevice(d Device, filter Filter) bool {
	for _, prefix := range excludedPrefixes {
		if strings.HasPrefix(d.Name, prefix) {
			return false
		}
	}

	for _, suffix := range excludedSuffixes {
		if strings.HasPrefix(d.Name, "mmcblk") && strings.HasSuffix(d.Name, suffix) {
			return false
		}
	}

	if filter.ExcludeDisk != "" && strings.EqualFold(d.Path, filter.ExcludeDisk) {
		return false
	}

	if d.SizeBytes == 0 {
		return false
	}

	if filter.MinSizeBytes > 0 && d.SizeBytes < filter.MinSizeBytes {
		return false
	}

	return true
}
