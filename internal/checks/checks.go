// Package checks implements the preflight verifications that gate an install:
// network reachability and clock synchronization. Unlike the planner's prompts,
// these retry a fixed number of times with a fixed backoff and then fail.
package checks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/archsetup/arch-setup-utils/internal/util"
)

const (
	// defaultAttempts caps how many times a probe runs before the check fails.
	defaultAttempts = 3

	// defaultBackoff is the fixed delay between probe attempts.
	defaultBackoff = 5 * time.Second

	// networkProbeHost is pinged to verify connectivity.
	networkProbeHost = "archlinux.org"
)

// Prober runs one probe attempt.
type Prober func(ctx context.Context) error

// Checker runs capped-retry preflight probes.
type Checker struct {
	Attempts int
	Backoff  time.Duration

	networkProbe Prober
	clockProbe   Prober
	sleep        func(time.Duration)
}

// NewChecker creates a Checker with the default attempt cap and backoff.
func NewChecker() *Checker {
	return &Checker{
		Attempts:     defaultAttempts,
		Backoff:      defaultBackoff,
		networkProbe: pingProbe,
		clockProbe:   ntpSyncProbe,
		sleep:        time.Sleep,
	}
}

// Network verifies the host can reach the package mirrors.
func (c *Checker) Network(ctx context.Context) error {
	return c.retry(ctx, "network", c.networkProbe)
}

// ClockSync verifies the system clock is NTP-synchronized.
func (c *Checker) ClockSync(ctx context.Context) error {
	return c.retry(ctx, "clock", c.clockProbe)
}

// retry runs probe up to the attempt cap, sleeping the fixed backoff between
// failed attempts. The last probe error is wrapped into the returned failure.
func (c *Checker) retry(ctx context.Context, name string, probe Prober) error {
	var err error
	for attempt := 1; attempt <= c.Attempts; attempt++ {
		logrus.WithFields(logrus.Fields{
			"check":   name,
			"attempt": attempt,
		}).Debug("Running preflight probe")

		if err = probe(ctx); err == nil {
			return nil
		}

		logrus.WithError(err).WithField("check", name).Warn("Preflight probe failed")
		if attempt < c.Attempts {
			c.sleep(c.Backoff)
		}
	}

	return fmt.Errorf("%s check failed after %d attempts: %w", name, c.Attempts, err)
}

// pingProbe sends a single ping to the probe host with a short timeout.
func pingProbe(ctx context.Context) error {
	out, err := util.ExecuteCommand(ctx, []string{"ping", "-c", "1", "-W", "5", networkProbeHost}, nil, nil)
	if err != nil {
		return fmt.Errorf("ping %s: [%s]: %w", networkProbeHost, strings.TrimSpace(out.Stderr), err)
	}

	return nil
}

// ntpSyncProbe asks timedatectl whether the clock is NTP-synchronized.
func ntpSyncProbe(ctx context.Context) error {
	out, err := util.ExecuteCommand(ctx, []string{"timedatectl", "show", "--property=NTPSynchronized", "--value"}, nil, nil)
	if err != nil {
		return fmt.Errorf("timedatectl: [%s]: %w", strings.TrimSpace(out.Stderr), err)
	}

	if strings.TrimSpace(out.Stdout) != "yes" {
		return fmt.Errorf("system clock is not NTP-synchronized")
	}

	return nil
}
