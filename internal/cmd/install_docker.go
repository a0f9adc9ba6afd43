package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/archsetup/arch-setup-utils/internal/util"
)

// dockerPackages are installed by the install-docker command.
var dockerPackages = []string{"docker", "docker-compose"}

// installDockerCommand creates a new command which installs and enables the Docker container runtime.
func installDockerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install-docker",
		Short: "install and enable the Docker container runtime",
		Long: strings.TrimSpace(`
			install-docker installs the Docker engine and docker-compose through
			pacman and enables the service so it starts on boot.
		`),
	}

	cmd.PreRunE = assertRootPrivileges

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runInstallDocker(cmd.Context())
	}

	return cmd
}

func runInstallDocker(ctx context.Context) error {
	logrus.WithField("packages", dockerPackages).Info("Installing container runtime packages...")

	cmdInstall := append([]string{"pacman", "-S", "--noconfirm", "--needed"}, dockerPackages...)
	out, err := util.ExecuteCommand(ctx, cmdInstall, nil, nil)
	logrus.WithField("out", out.Stdout).Debug("pacman output")
	if err != nil {
		return fmt.Errorf("pacman: failed to install packages, stderr: [%s]: %w", out.Stderr, err)
	}

	logrus.Info("Enabling docker.service...")
	out, err = util.ExecuteCommand(ctx, []string{"systemctl", "enable", "--now", "docker.service"}, nil, nil)
	logrus.WithField("out", out.Stdout).Debug("systemctl output")
	if err != nil {
		return fmt.Errorf("systemctl: failed to enable docker.service, stderr: [%s]: %w", out.Stderr, err)
	}

	logrus.Info("Container runtime installed and enabled")
	return nil
}
