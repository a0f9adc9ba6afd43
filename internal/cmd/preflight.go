package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/archsetup/arch-setup-utils/internal/checks"
	"github.com/archsetup/arch-setup-utils/internal/contextual"
	"github.com/archsetup/arch-setup-utils/internal/system"
)

// preflightCommand creates a new command which verifies the host is ready to install:
// UEFI boot, working network, and a synchronized clock.
func preflightCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preflight",
		Short: "verify boot mode, network and clock",
		Long: strings.TrimSpace(`
			preflight verifies the environment before any destructive step: the host
			must be booted through UEFI firmware, the package mirrors must be
			reachable, and the system clock must be NTP-synchronized. Network and
			clock probes retry a fixed number of times before failing.
		`),
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		host := contextual.Host(ctx)
		if host == nil {
			return errors.New("host scan required in context")
		}

		logrus.WithField("firmware", host.Firmware).Info("Checking boot mode...")
		if host.Firmware != system.UEFI {
			return fmt.Errorf("host booted via %s firmware, only UEFI installs are supported", host.Firmware)
		}

		checker := checks.NewChecker()

		logrus.Info("Checking network reachability...")
		if err := checker.Network(ctx); err != nil {
			return err
		}

		logrus.Info("Checking clock synchronization...")
		if err := checker.ClockSync(ctx); err != nil {
			return err
		}

		logrus.Info("Preflight checks passed")
		return nil
	}

	return cmd
}
