// Package partition applies a confirmed layout plan to a disk: GPT creation via
// sgdisk, role-specific formatting, and mounting at the fixed install targets.
package partition

//go:generate mockgen -destination mocks/mock_partition.go github.com/archsetup/arch-setup-utils/internal/partition Tool

import (
	"context"
	"fmt"
	"os"

	"github.com/archsetup/arch-setup-utils/internal/util"
)

// Tool outlines the functionality necessary for wrapping the partitioning and
// formatting tools. The methods correspond to the underlying tool invocations.
type Tool interface {
	// SgdiskVersion fetches the raw version banner from sgdisk.
	SgdiskVersion(ctx context.Context) (string, error)
	// Zap destroys the GPT and MBR data structures on the disk.
	Zap(ctx context.Context, disk string) (string, error)
	// AddPartition creates partition num on disk with the given sgdisk size
	// argument ("+512M" style, or "0" for end-of-disk), type code, and name.
	AddPartition(ctx context.Context, disk string, num int, size string, typecode string, name string) (string, error)
	// Format creates a filesystem of fstype ("vfat", "ext4" or "swap") on the partition node.
	Format(ctx context.Context, node string, fstype string) (string, error)
	// LuksFormat initializes a LUKS container on the partition node. The
	// passphrase dialog is passed through to the controlling terminal.
	LuksFormat(ctx context.Context, node string) (string, error)
	// Mount mounts the partition node at target, creating target if needed.
	Mount(ctx context.Context, node string, target string) (string, error)
	// EnableSwap activates the swap signature on the partition node.
	EnableSwap(ctx context.Context, node string) (string, error)
}

// ToolCmd is an empty struct that provides the implementation for the Tool interface.
type ToolCmd struct{}

// Type assertion to ensure ToolCmd implements the Tool interface.
var _ Tool = (*ToolCmd)(nil)

func (t *ToolCmd) SgdiskVersion(ctx context.Context) (string, error) {
	out, err := util.ExecuteCommand(ctx, []string{"sgdisk", "--version"}, nil, nil)
	if err != nil {
		return out.Stdout, fmt.Errorf("sgdisk: failed to read version, stderr: [%s]: %w", out.Stderr, err)
	}

	return out.Stdout, nil
}

func (t *ToolCmd) Zap(ctx context.Context, disk string) (string, error) {
	// --zap-all destroys both GPT and MBR structures before the new table is written.
	out, err := util.ExecuteCommand(ctx, []string{"sgdisk", "--zap-all", disk}, nil, nil)
	if err != nil {
		return out.Stdout, fmt.Errorf("sgdisk: failed to zap %s, stderr: [%s]: %w", disk, out.Stderr, err)
	}

	return out.Stdout, nil
}

func (t *ToolCmd) AddPartition(ctx context.Context, disk string, num int, size string, typecode string, name string) (string, error) {
	// -n num:0:size creates the partition at the first free aligned sector,
	// -t sets the GPT type code and -c the partition name.
	cmdAdd := []string{
		"sgdisk",
		"-n", fmt.Sprintf("%d:0:%s", num, size),
		"-t", fmt.Sprintf("%d:%s", num, typecode),
		"-c", fmt.Sprintf("%d:%s", num, name),
		disk,
	}

	out, err := util.ExecuteCommand(ctx, cmdAdd, nil, nil)
	if err != nil {
		return out.Stdout, fmt.Errorf("sgdisk: failed to create partition %d on %s, stderr: [%s]: %w", num, disk, out.Stderr, err)
	}

	return out.Stdout, nil
}

func (t *ToolCmd) Format(ctx context.Context, node string, fstype string) (string, error) {
	var cmdFormat []string
	switch fstype {
	case "vfat":
		cmdFormat = []string{"mkfs.fat", "-F32", node}
	case "ext4":
		cmdFormat = []string{"mkfs.ext4", "-F", node}
	case "swap":
		cmdFormat = []string{"mkswap", node}
	default:
		return "", fmt.Errorf("unsupported filesystem type %q", fstype)
	}

	out, err := util.ExecuteCommand(ctx, cmdFormat, nil, nil)
	if err != nil {
		return out.Stdout, fmt.Errorf("%s: failed to format %s, stderr: [%s]: %w", cmdFormat[0], node, out.Stderr, err)
	}

	return out.Stdout, nil
}

func (t *ToolCmd) LuksFormat(ctx context.Context, node string) (string, error) {
	// cryptsetup prompts for the passphrase itself, so the terminal is handed through.
	out, err := util.ExecuteCommand(ctx, []string{"cryptsetup", "luksFormat", node}, nil, os.Stdin)
	if err != nil {
		return out.Stdout, fmt.Errorf("cryptsetup: failed to format %s, stderr: [%s]: %w", node, out.Stderr, err)
	}

	return out.Stdout, nil
}

func (t *ToolCmd) Mount(ctx context.Context, node string, target string) (string, error) {
	if err := os.MkdirAll(target, 0o755); err != nil {
		return "", fmt.Errorf("mount: cannot create target %s: %w", target, err)
	}

	out, err := util.ExecuteCommand(ctx, []string{"mount", node, target}, nil, nil)
	if err != nil {
		return out.Stdout, fmt.Errorf("mount: failed to mount %s at %s, stderr: [%s]: %w", node, target, out.Stderr, err)
	}

	return out.Stdout, nil
}

func (t *ToolCmd) EnableSwap(ctx context.Context, node string) (string, error) {
	out, err := util.ExecuteCommand(ctx, []string{"swapon", node}, nil, nil)
	if err != nil {
		return out.Stdout, fmt.Errorf("swapon: failed to enable swap on %s, stderr: [%s]: %w", node, out.Stderr, err)
	}

	return out.Stdout, nil
}
