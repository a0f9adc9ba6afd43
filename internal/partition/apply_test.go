package partition

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	mock_partition "github.com/archsetup/arch-setup-utils/internal/partition/mocks"
	"github.com/archsetup/arch-setup-utils/internal/planner"
)

func init() {
	logrus.SetOutput(io.Discard)
}

const sgdiskBanner = "GPT fdisk (sgdisk) version 1.0.9\n"

func standardPlan() *planner.LayoutPlan {
	roles := planner.DefaultRoles(false)
	return &planner.LayoutPlan{
		Entries: []planner.Entry{
			{Role: roles[0], Bytes: 512 * planner.MiB},
			{Role: roles[1], Bytes: 4 * planner.GiB},
			{Role: roles[2], Bytes: 30 * planner.GiB},
			{Role: roles[3], Bytes: 65 * planner.GiB},
		},
	}
}

func TestApply_WithoutPlan(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTool := mock_partition.NewMockTool(ctrl)

	err := Apply(context.Background(), mockTool, nil)

	assert.Error(t, err, "shouldn't be able to apply a nil plan")
}

func TestApply_FullFlowOrdering(t *testing.T) {
	var ctx = context.Background()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	plan := standardPlan()
	plan.Disk.Path = "/dev/sda"

	mockTool := mock_partition.NewMockTool(ctrl)
	gomock.InOrder(
		mockTool.EXPECT().SgdiskVersion(ctx).Return(sgdiskBanner, nil),
		mockTool.EXPECT().Zap(ctx, "/dev/sda").Return("", nil),
		mockTool.EXPECT().AddPartition(ctx, "/dev/sda", 1, "+524288K", "ef00", "EFI").Return("", nil),
		mockTool.EXPECT().AddPartition(ctx, "/dev/sda", 2, "+4194304K", "8200", "swap").Return("", nil),
		mockTool.EXPECT().AddPartition(ctx, "/dev/sda", 3, "+31457280K", "8300", "root").Return("", nil),
		mockTool.EXPECT().AddPartition(ctx, "/dev/sda", 4, "0", "8302", "home").Return("", nil),
		mockTool.EXPECT().Format(ctx, "/dev/sda1", "vfat").Return("", nil),
		mockTool.EXPECT().Format(ctx, "/dev/sda2", "swap").Return("", nil),
		mockTool.EXPECT().Format(ctx, "/dev/sda3", "ext4").Return("", nil),
		mockTool.EXPECT().Format(ctx, "/dev/sda4", "ext4").Return("", nil),
		mockTool.EXPECT().Mount(ctx, "/dev/sda3", "/mnt").Return("", nil),
		mockTool.EXPECT().Mount(ctx, "/dev/sda1", "/mnt/boot").Return("", nil),
		mockTool.EXPECT().Mount(ctx, "/dev/sda4", "/mnt/home").Return("", nil),
		mockTool.EXPECT().EnableSwap(ctx, "/dev/sda2").Return("", nil),
	)

	err := Apply(ctx, mockTool, plan)

	assert.NoError(t, err)
}

func TestApply_UnallocatedTailKeepsExplicitSize(t *testing.T) {
	var ctx = context.Background()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	roles := planner.DefaultRoles(false)
	plan := &planner.LayoutPlan{
		Entries: []planner.Entry{
			{Role: roles[3], Bytes: 9 * planner.GiB},
		},
		Unallocated: planner.GiB,
	}
	plan.Disk.Path = "/dev/sda"

	mockTool := mock_partition.NewMockTool(ctrl)
	mockTool.EXPECT().SgdiskVersion(ctx).Return(sgdiskBanner, nil)
	mockTool.EXPECT().Zap(ctx, "/dev/sda").Return("", nil)
	// With a reported leftover the final partition must not extend to disk end.
	mockTool.EXPECT().AddPartition(ctx, "/dev/sda", 1, "+9437184K", "8302", "home").Return("", nil)
	mockTool.EXPECT().Format(ctx, "/dev/sda1", "ext4").Return("", nil)
	mockTool.EXPECT().Mount(ctx, "/dev/sda1", "/mnt/home").Return("", nil)

	err := Apply(ctx, mockTool, plan)

	assert.NoError(t, err)
}

func TestApply_EncryptedRoleUsesLuksFormat(t *testing.T) {
	var ctx = context.Background()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	roles := planner.DefaultRoles(true)
	plan := &planner.LayoutPlan{
		Entries: []planner.Entry{
			{Role: roles[3], Bytes: 20 * planner.GiB}, // encrypted
		},
		Unallocated: planner.GiB,
	}
	plan.Disk.Path = "/dev/nvme0n1"

	mockTool := mock_partition.NewMockTool(ctrl)
	mockTool.EXPECT().SgdiskVersion(ctx).Return(sgdiskBanner, nil)
	mockTool.EXPECT().Zap(ctx, "/dev/nvme0n1").Return("", nil)
	mockTool.EXPECT().AddPartition(ctx, "/dev/nvme0n1", 1, gomock.Any(), "8309", "encrypted").Return("", nil)
	mockTool.EXPECT().LuksFormat(ctx, "/dev/nvme0n1p1").Return("", nil)

	err := Apply(ctx, mockTool, plan)

	assert.NoError(t, err)
}

func TestApply_RejectsOldSgdisk(t *testing.T) {
	var ctx = context.Background()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	plan := standardPlan()
	plan.Disk.Path = "/dev/sda"

	mockTool := mock_partition.NewMockTool(ctrl)
	mockTool.EXPECT().SgdiskVersion(ctx).Return("GPT fdisk (sgdisk) version 0.8.10\n", nil)

	err := Apply(ctx, mockTool, plan)

	assert.Error(t, err, "sgdisk below the minimum version must be rejected")
}

func TestApply_UnparseableSgdiskBanner(t *testing.T) {
	var ctx = context.Background()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	plan := standardPlan()
	plan.Disk.Path = "/dev/sda"

	mockTool := mock_partition.NewMockTool(ctrl)
	mockTool.EXPECT().SgdiskVersion(ctx).Return("not a banner", nil)

	err := Apply(ctx, mockTool, plan)

	assert.Error(t, err)
}

func TestApply_ZapErrorStopsFlow(t *testing.T) {
	var ctx = context.Background()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	plan := standardPlan()
	plan.Disk.Path = "/dev/sda"

	mockTool := mock_partition.NewMockTool(ctrl)
	gomock.InOrder(
		mockTool.EXPECT().SgdiskVersion(ctx).Return(sgdiskBanner, nil),
		mockTool.EXPECT().Zap(ctx, "/dev/sda").Return("", fmt.Errorf("error")),
	)

	err := Apply(ctx, mockTool, plan)

	assert.Error(t, err)
}

func TestPartitionNode(t *testing.T) {
	tests := []struct {
		disk string
		num  int
		want string
	}{
		{"/dev/sda", 1, "/dev/sda1"},
		{"/dev/sda", 3, "/dev/sda3"},
		{"/dev/nvme0n1", 1, "/dev/nvme0n1p1"},
		{"/dev/mmcblk0", 2, "/dev/mmcblk0p2"},
		{"/dev/vdb", 4, "/dev/vdb4"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, PartitionNode(tt.disk, tt.num), "disk %s partition %d", tt.disk, tt.num)
	}
}

func TestSizeArgument(t *testing.T) {
	e := planner.Entry{Bytes: 512 * planner.MiB}

	assert.Equal(t, "+524288K", sizeArgument(e, false))
	assert.Equal(t, "0", sizeArgument(e, true))
}
