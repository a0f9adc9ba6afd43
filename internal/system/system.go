// Package system provides the functionality necessary for inspecting the host the installer runs on.
package system

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	// efivarsPath is the path exposed by the kernel when the system was booted through UEFI firmware.
	efivarsPath = "/sys/firmware/efi/efivars"

	// archisoBootMount is the mount point the Arch live environment uses for its boot medium.
	archisoBootMount = "/run/archiso/bootmnt"

	// procMountsPath lists the mounts visible to this process.
	procMountsPath = "/proc/self/mounts"
)

// Firmware is used to define the firmware interface the host was booted with.
type Firmware uint8

const (
	UnknownFirmware Firmware = iota
	BIOS
	UEFI
)

func (f Firmware) String() string {
	switch f {
	case BIOS:
		return "BIOS"
	case UEFI:
		return "UEFI"
	default:
		return "unknown"
	}
}

// Host describes the scanned installation host.
type Host struct {
	// Firmware is the firmware interface the host was booted with.
	Firmware Firmware

	// LiveMediumDisk is the whole-disk device node backing the live boot medium,
	// empty when the host isn't running from an Arch live environment.
	LiveMediumDisk string
}

// Scan inspects the running host and creates a new Host struct describing it.
func Scan() (*Host, error) {
	firmware := detectFirmware(efivarsPath)

	liveDisk, err := liveMediumFromMounts(procMountsPath)
	if err != nil {
		return nil, fmt.Errorf("cannot read mount table: %w", err)
	}

	host := &Host{
		Firmware:       firmware,
		LiveMediumDisk: liveDisk,
	}

	return host, nil
}

// detectFirmware reports UEFI when the kernel exposes the efivars directory and BIOS otherwise.
func detectFirmware(path string) Firmware {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return BIOS
	}
	return UEFI
}

// liveMediumFromMounts opens the mount table at path and resolves the disk backing the live medium.
func liveMediumFromMounts(path string) (string, error) {
	mounts, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer mounts.Close()

	return parseLiveMedium(mounts)
}

// parseLiveMedium scans mount table lines for the archiso boot mount and returns
// the whole-disk device node for its source, stripping any partition suffix.
func parseLiveMedium(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		source, target := fields[0], fields[1]
		if target != archisoBootMount {
			continue
		}
		if !strings.HasPrefix(source, "/dev/") {
			return "", nil
		}
		return wholeDisk(source), nil
	}

	return "", scanner.Err()
}

// wholeDisk reduces a partition device node to its parent disk node
// (e.g. /dev/sdb1 -> /dev/sdb, /dev/nvme0n1p2 -> /dev/nvme0n1).
func wholeDisk(node string) string {
	name := filepath.Base(node)

	// nvme0n1p2 / mmcblk0p1 style nodes carry a "p<n>" partition suffix.
	if i := strings.LastIndex(name, "p"); i > 0 && isDigits(name[i+1:]) && strings.ContainsAny(name[:i], "0123456789") {
		return "/dev/" + name[:i]
	}

	// sdb1 style nodes end with bare digits.
	trimmed := strings.TrimRight(name, "0123456789")
	if trimmed != name && trimmed != "" {
		return "/dev/" + trimmed
	}

	return node
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
