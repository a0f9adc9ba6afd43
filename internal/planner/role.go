package planner

import "errors"

// Kind enumerates the fixed partition roles the planner knows how to lay out.
type Kind uint8

const (
	KindEFI Kind = iota
	KindSwap
	KindRoot
	KindCrypt
	KindHome
)

// Role describes one partition in the fixed layout sequence.
type Role struct {
	Kind Kind

	// Name is the display name used in prompts and the summary.
	Name string

	// Example is a sample size token shown in the prompt.
	Example string

	// FSType is the filesystem the downstream formatter applies (empty means raw/LUKS).
	FSType string

	// MountPoint is the target mount path under the install root, empty when unmounted.
	MountPoint string

	// Typecode is the sgdisk GPT partition type code.
	Typecode string

	// MayConsumeRemaining permits an empty size input meaning "all remaining capacity".
	// Only valid on the final role in the sequence.
	MayConsumeRemaining bool
}

// DefaultRoles returns the fixed layout sequence: EFI, Swap, Root, Home,
// with an encrypted volume between Root and Home when encrypt is set.
// Home is the only role allowed to consume all remaining capacity.
func DefaultRoles(encrypt bool) []Role {
	roles := []Role{
		{Kind: KindEFI, Name: "EFI", Example: "512M", FSType: "vfat", MountPoint: "/mnt/boot", Typecode: "ef00"},
		{Kind: KindSwap, Name: "swap", Example: "4G", FSType: "swap", Typecode: "8200"},
		{Kind: KindRoot, Name: "root", Example: "30G", FSType: "ext4", MountPoint: "/mnt", Typecode: "8300"},
	}

	if encrypt {
		roles = append(roles, Role{Kind: KindCrypt, Name: "encrypted", Example: "20G", Typecode: "8309"})
	}

	roles = append(roles, Role{
		Kind:                KindHome,
		Name:                "home",
		Example:             "50G",
		FSType:              "ext4",
		MountPoint:          "/mnt/home",
		Typecode:            "8302",
		MayConsumeRemaining: true,
	})

	return roles
}

// validateRoles rejects sequences where a non-final role could consume all
// remaining capacity, which would leave later roles with nothing to allocate.
func validateRoles(roles []Role) error {
	if len(roles) == 0 {
		return errors.New("no partition roles configured")
	}

	for i, role := range roles {
		if role.MayConsumeRemaining && i != len(roles)-1 {
			return errors.New("only the final partition role may consume remaining capacity")
		}
	}

	return nil
}
