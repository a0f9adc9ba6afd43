// Package planner implements the interactive disk-layout planning flow: disk
// selection, capacity-constrained partition-size allocation, and the final
// summary gate that commits a LayoutPlan.
//
// Leftover policy: when explicit sizes leave capacity unallocated after the
// last role, the planner asks once whether to fold the remainder into the last
// partition; declining leaves it reported as unallocated in the summary.
package planner

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/archsetup/arch-setup-utils/internal/blockdev"
)

var (
	// ErrUserCancelled identifies an explicit decline at a confirmation gate,
	// or the input stream ending mid-plan. Nothing is committed.
	ErrUserCancelled = errors.New("cancelled by user")

	// ErrCapacityExceeded identifies a size that doesn't leave room for the roles after it.
	ErrCapacityExceeded = errors.New("size exceeds remaining capacity")

	// ErrInvalidSelection identifies a disk selection outside the presented range.
	ErrInvalidSelection = errors.New("invalid disk selection")
)

// Entry is one allocated partition: a role and its exact byte size.
type Entry struct {
	Role  Role
	Bytes uint64
}

// AllocationState is the running accumulator for the allocation loop.
// Used never exceeds Total.
type AllocationState struct {
	Total   uint64
	Used    uint64
	Entries []Entry
}

// Available reports the capacity not yet allocated.
func (s *AllocationState) Available() uint64 {
	return s.Total - s.Used
}

// allocate appends an entry while preserving the Used <= Total invariant.
func (s *AllocationState) allocate(role Role, bytes uint64) error {
	if bytes > s.Available() {
		return ErrCapacityExceeded
	}
	s.Entries = append(s.Entries, Entry{Role: role, Bytes: bytes})
	s.Used += bytes
	return nil
}

// LayoutPlan is the finished planning artifact handed to the partitioning collaborator.
// It is immutable once returned.
type LayoutPlan struct {
	Disk        blockdev.Device
	Entries     []Entry
	Unallocated uint64
}

// Planner drives the interactive planning flow over a line-based terminal.
type Planner struct {
	in    *bufio.Scanner
	out   io.Writer
	roles []Role
}

// New creates a Planner reading prompts from in and writing them to out.
func New(in io.Reader, out io.Writer, roles []Role) (*Planner, error) {
	if err := validateRoles(roles); err != nil {
		return nil, err
	}

	return &Planner{
		in:    bufio.NewScanner(in),
		out:   out,
		roles: roles,
	}, nil
}

// Plan runs the full flow against the eligible devices: selection, destructive-intent
// confirmation, per-role allocation, leftover handling, and the final summary gate.
// It returns ErrUserCancelled without side effects whenever the user backs out.
func (p *Planner) Plan(devices []blockdev.Device) (*LayoutPlan, error) {
	if len(devices) == 0 {
		return nil, blockdev.ErrNoEligibleDisk
	}

	disk, err := p.selectDisk(devices)
	if err != nil {
		return nil, err
	}

	if err := p.confirmTarget(disk); err != nil {
		return nil, err
	}

	state, err := p.allocateAll(disk)
	if err != nil {
		return nil, err
	}

	if err := p.resolveLeftover(state); err != nil {
		return nil, err
	}

	plan := &LayoutPlan{
		Disk:        disk,
		Entries:     state.Entries,
		Unallocated: state.Available(),
	}

	if err := p.confirmSummary(plan); err != nil {
		return nil, err
	}

	return plan, nil
}

// readLine reads the next input line. A closed input stream cancels the run.
func (p *Planner) readLine() (string, error) {
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", fmt.Errorf("%w: %v", ErrUserCancelled, err)
		}
		return "", ErrUserCancelled
	}
	return strings.TrimSpace(p.in.Text()), nil
}

// selectDisk presents the eligible disks with a 1-based index and re-prompts
// until a selection within range is made. Retries are unbounded.
func (p *Planner) selectDisk(devices []blockdev.Device) (blockdev.Device, error) {
	fmt.Fprintln(p.out, "Available disks:")
	for i, d := range devices {
		fmt.Fprintf(p.out, "  [%d] %s  %s  %s\n", i+1, d.Path, humanize.IBytes(d.SizeBytes), describeDevice(d))
	}

	for {
		fmt.Fprintf(p.out, "Select a disk [1-%d]: ", len(devices))

		input, err := p.readLine()
		if err != nil {
			return blockdev.Device{}, err
		}

		idx, err := parseSelection(input, len(devices))
		if err != nil {
			fmt.Fprintf(p.out, "%v, try again\n", err)
			continue
		}

		return devices[idx], nil
	}
}

// parseSelection converts a 1-based selection token into a slice index.
func parseSelection(input string, count int) (int, error) {
	n, err := strconv.Atoi(input)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidSelection, input)
	}
	if n < 1 || n > count {
		return 0, fmt.Errorf("%w: %d is out of range", ErrInvalidSelection, n)
	}
	return n - 1, nil
}

func describeDevice(d blockdev.Device) string {
	desc := d.Model
	if desc == "" {
		desc = d.Vendor
	}
	if desc == "" {
		desc = "unknown model"
	}
	if d.Removable {
		desc += " (removable)"
	}
	return desc
}

// confirmTarget is the destructive-intent gate: the user must type the device
// path verbatim. Any other input aborts the entire run.
func (p *Planner) confirmTarget(disk blockdev.Device) error {
	fmt.Fprintf(p.out, "All data on %s (%s, %s) will be destroyed.\n",
		disk.Path, humanize.IBytes(disk.SizeBytes), describeDevice(disk))
	fmt.Fprintf(p.out, "Type the device path (%s) to confirm: ", disk.Path)

	input, err := p.readLine()
	if err != nil {
		return err
	}
	if input != disk.Path {
		return fmt.Errorf("%w: target not confirmed", ErrUserCancelled)
	}

	return nil
}

// allocateAll walks the role sequence, prompting for one size per role.
// A remaining-capacity assignment terminates the loop by construction
// since only the final role may carry the flag.
func (p *Planner) allocateAll(disk blockdev.Device) (*AllocationState, error) {
	state := &AllocationState{Total: disk.SizeBytes}

	for _, role := range p.roles {
		bytes, all, err := p.promptSize(role, state.Available())
		if err != nil {
			return nil, err
		}

		if all {
			if err := state.allocate(role, state.Available()); err != nil {
				return nil, err
			}
			break
		}

		if err := state.allocate(role, bytes); err != nil {
			return nil, err
		}
	}

	return state, nil
}

// promptState models the per-role size prompt loop.
type promptState uint8

const (
	statePrompting promptState = iota
	stateValidating
	stateRejected
)

// promptSize prompts for role's size until the input is accepted. Malformed and
// over-capacity inputs are reported and retried without bound; the returned all
// flag marks a remaining-capacity assignment.
func (p *Planner) promptSize(role Role, available uint64) (bytes uint64, all bool, err error) {
	var input string
	state := statePrompting

	for {
		switch state {
		case statePrompting:
			if role.MayConsumeRemaining {
				fmt.Fprintf(p.out, "Size for %s partition (e.g. %s, empty for all remaining, %s available): ",
					role.Name, role.Example, humanize.IBytes(available))
			} else {
				fmt.Fprintf(p.out, "Size for %s partition (e.g. %s, %s available): ",
					role.Name, role.Example, humanize.IBytes(available))
			}

			input, err = p.readLine()
			if err != nil {
				return 0, false, err
			}
			state = stateValidating

		case stateValidating:
			bytes, all, err = evaluateSize(input, role, available)
			if err != nil {
				fmt.Fprintf(p.out, "%v\n", err)
				state = stateRejected
				continue
			}
			return bytes, all, nil

		case stateRejected:
			state = statePrompting
		}
	}
}

// evaluateSize validates one size input against the role and remaining capacity.
// Explicit sizes must be strictly below the available capacity so that every
// later role (or the reported leftover) keeps at least one byte.
func evaluateSize(input string, role Role, available uint64) (bytes uint64, all bool, err error) {
	if input == "" {
		if !role.MayConsumeRemaining {
			return 0, false, fmt.Errorf("%w: a size is required for the %s partition", ErrInvalidSizeFormat, role.Name)
		}
		return 0, true, nil
	}

	bytes, err = ParseSize(input)
	if err != nil {
		return 0, false, err
	}

	if bytes >= available {
		return 0, false, fmt.Errorf("%w: %s requested, only %s available",
			ErrCapacityExceeded, FormatSize(bytes), humanize.IBytes(available))
	}

	return bytes, false, nil
}

// resolveLeftover applies the leftover policy: offer once to fold any
// unallocated capacity into the last partition.
func (p *Planner) resolveLeftover(state *AllocationState) error {
	leftover := state.Available()
	if leftover == 0 {
		return nil
	}

	last := &state.Entries[len(state.Entries)-1]
	fmt.Fprintf(p.out, "%s remains unallocated. Add it to the %s partition? [y/N]: ",
		humanize.IBytes(leftover), last.Role.Name)

	input, err := p.readLine()
	if err != nil {
		return err
	}

	if strings.EqualFold(input, "y") || strings.EqualFold(input, "yes") {
		last.Bytes += leftover
		state.Used = state.Total
	}

	return nil
}

// confirmSummary renders the plan and requires the exact token "yes" to commit.
func (p *Planner) confirmSummary(plan *LayoutPlan) error {
	fmt.Fprintf(p.out, "\nPlanned layout for %s:\n", plan.Disk.Path)
	for i, e := range plan.Entries {
		fmt.Fprintf(p.out, "  %d. %-10s %10s  (%s)\n", i+1, e.Role.Name, FormatSize(e.Bytes), humanize.IBytes(e.Bytes))
	}
	if plan.Unallocated > 0 {
		fmt.Fprintf(p.out, "  unallocated: %s\n", humanize.IBytes(plan.Unallocated))
	}

	fmt.Fprint(p.out, `Proceed with partitioning? Type "yes" to continue: `)

	input, err := p.readLine()
	if err != nil {
		return err
	}
	if input != "yes" {
		return fmt.Errorf("%w: layout not confirmed", ErrUserCancelled)
	}

	return nil
}
