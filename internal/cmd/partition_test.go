package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/archsetup/arch-setup-utils/internal/blockdev"
	mock_blockdev "github.com/archsetup/arch-setup-utils/internal/blockdev/mocks"
	mock_partition "github.com/archsetup/arch-setup-utils/internal/partition/mocks"
	"github.com/archsetup/arch-setup-utils/internal/planner"
	"github.com/archsetup/arch-setup-utils/internal/system"
)

func init() {
	logrus.SetOutput(io.Discard)
}

func TestParseMinDiskSize(t *testing.T) {
	tests := []struct {
		input   string
		want    uint64
		wantErr bool
	}{
		{"10G", 10 * planner.GiB, false},
		{"512M", 512 * planner.MiB, false},
		{"0", 0, false},
		{"", 0, false},
		{"ten gigs", 0, true},
	}

	for _, tt := range tests {
		got, err := parseMinDiskSize(tt.input)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.input)
		} else {
			assert.NoError(t, err, "input %q", tt.input)
			assert.Equal(t, tt.want, got, "input %q", tt.input)
		}
	}
}

func TestRunPartition_RequiresUEFI(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLister := mock_blockdev.NewMockLister(ctrl)
	mockTool := mock_partition.NewMockTool(ctrl)
	host := &system.Host{Firmware: system.BIOS}

	err := runPartition(context.Background(), mockLister, mockTool,
		strings.NewReader(""), io.Discard, host, partitionArgs{})

	assert.Error(t, err, "BIOS hosts must be rejected before any disk access")
}

func TestRunPartition_ListError(t *testing.T) {
	var ctx = context.Background()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLister := mock_blockdev.NewMockLister(ctrl)
	mockLister.EXPECT().List(ctx).Return(nil, fmt.Errorf("error"))
	mockTool := mock_partition.NewMockTool(ctrl)
	host := &system.Host{Firmware: system.UEFI}

	err := runPartition(ctx, mockLister, mockTool,
		strings.NewReader(""), io.Discard, host, partitionArgs{})

	assert.Error(t, err)
}

func TestRunPartition_NoEligibleDisk(t *testing.T) {
	var ctx = context.Background()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLister := mock_blockdev.NewMockLister(ctrl)
	mockLister.EXPECT().List(ctx).Return([]blockdev.Device{
		{Path: "/dev/loop0", Name: "loop0", SizeBytes: 1 << 30},
	}, nil)
	mockTool := mock_partition.NewMockTool(ctrl)
	host := &system.Host{Firmware: system.UEFI}

	err := runPartition(ctx, mockLister, mockTool,
		strings.NewReader(""), io.Discard, host, partitionArgs{})

	assert.ErrorIs(t, err, blockdev.ErrNoEligibleDisk)
}

func TestRunPartition_CancelledPlanSkipsApply(t *testing.T) {
	var ctx = context.Background()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLister := mock_blockdev.NewMockLister(ctrl)
	mockLister.EXPECT().List(ctx).Return([]blockdev.Device{
		{Path: "/dev/vda", Name: "vda", SizeBytes: 100 << 30},
	}, nil)
	// No Tool expectations: a cancelled plan must never reach the partitioning tools.
	mockTool := mock_partition.NewMockTool(ctrl)
	host := &system.Host{Firmware: system.UEFI}

	input := strings.NewReader("1\n/dev/wrong\n")
	err := runPartition(ctx, mockLister, mockTool, input, io.Discard, host, partitionArgs{})

	assert.ErrorIs(t, err, planner.ErrUserCancelled)
}

func TestRunPartition_FullFlow(t *testing.T) {
	var ctx = context.Background()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLister := mock_blockdev.NewMockLister(ctrl)
	mockLister.EXPECT().List(ctx).Return([]blockdev.Device{
		{Path: "/dev/vda", Name: "vda", SizeBytes: 100 << 30, Model: "Virtio Disk"},
		{Path: "/dev/sdb", Name: "sdb", SizeBytes: 8 << 30, Removable: true},
	}, nil)

	mockTool := mock_partition.NewMockTool(ctrl)
	mockTool.EXPECT().SgdiskVersion(ctx).Return("GPT fdisk (sgdisk) version 1.0.9", nil)
	mockTool.EXPECT().Zap(ctx, "/dev/vda").Return("", nil)
	mockTool.EXPECT().AddPartition(ctx, "/dev/vda", gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("", nil).Times(4)
	mockTool.EXPECT().Format(ctx, gomock.Any(), gomock.Any()).Return("", nil).Times(4)
	mockTool.EXPECT().Mount(ctx, gomock.Any(), gomock.Any()).Return("", nil).Times(3)
	mockTool.EXPECT().EnableSwap(ctx, "/dev/vda2").Return("", nil)

	host := &system.Host{Firmware: system.UEFI, LiveMediumDisk: "/dev/sdb"}
	out := &bytes.Buffer{}
	input := strings.NewReader("1\n/dev/vda\n512M\n4G\n30G\n\nyes\n")

	err := runPartition(ctx, mockLister, mockTool, input, out, host, partitionArgs{minDiskSize: "10G"})

	assert.NoError(t, err)
	assert.NotContains(t, out.String(), "/dev/sdb", "the live medium must not be offered for selection")
}
