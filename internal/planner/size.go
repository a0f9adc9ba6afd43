package planner

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	// MiB is the number of bytes in a mebibyte.
	MiB uint64 = 1 << 20
	// GiB is the number of bytes in a gibibyte.
	GiB uint64 = 1 << 30
)

// ErrInvalidSizeFormat identifies size tokens that don't parse to an exact, positive byte count.
var ErrInvalidSizeFormat = errors.New("invalid size format")

// sizeExp matches a size token: a positive number, an optional fraction, and an M or G unit suffix.
var sizeExp = regexp.MustCompile(`^([0-9]+)(?:\.([0-9]+))?([MG])$`)

// ParseSize converts a size token (e.g. "512M", "30G", "1.5G") into an exact byte count.
//
// All arithmetic is integer arithmetic so that repeated additions during allocation
// never accumulate binary floating-point drift. Fractions are accepted for the G unit
// only, and only when the result is byte-exact (1.5G is, 0.1G isn't).
func ParseSize(token string) (uint64, error) {
	m := sizeExp.FindStringSubmatch(strings.TrimSpace(token))
	if m == nil {
		return 0, fmt.Errorf("%w: %q (expected forms like 512M or 30G)", ErrInvalidSizeFormat, token)
	}

	whole, frac, unit := m[1], m[2], m[3]

	var unitBytes uint64
	switch unit {
	case "M":
		unitBytes = MiB
	case "G":
		unitBytes = GiB
	}

	if frac != "" && unit != "G" {
		return 0, fmt.Errorf("%w: fractional sizes are only supported with the G unit", ErrInvalidSizeFormat)
	}

	wholeN, err := strconv.ParseUint(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSizeFormat, token)
	}
	if wholeN != 0 && wholeN > math.MaxUint64/unitBytes {
		return 0, fmt.Errorf("%w: %q is out of range", ErrInvalidSizeFormat, token)
	}

	bytes := wholeN * unitBytes

	if frac != "" {
		fracBytes, err := fractionBytes(frac, unitBytes)
		if err != nil {
			return 0, err
		}
		if bytes > math.MaxUint64-fracBytes {
			return 0, fmt.Errorf("%w: %q is out of range", ErrInvalidSizeFormat, token)
		}
		bytes += fracBytes
	}

	if bytes == 0 {
		return 0, fmt.Errorf("%w: size must be positive", ErrInvalidSizeFormat)
	}

	return bytes, nil
}

// fractionBytes converts the fractional digits of a size token into bytes,
// rejecting fractions that don't resolve to a whole byte count.
func fractionBytes(digits string, unitBytes uint64) (uint64, error) {
	// Nine digits keeps frac*unitBytes comfortably inside uint64.
	if len(digits) > 9 {
		return 0, fmt.Errorf("%w: too many fractional digits", ErrInvalidSizeFormat)
	}

	frac, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSizeFormat, digits)
	}

	scale := uint64(1)
	for i := 0; i < len(digits); i++ {
		scale *= 10
	}

	product := frac * unitBytes
	if product%scale != 0 {
		return 0, fmt.Errorf("%w: fraction is not byte-exact", ErrInvalidSizeFormat)
	}

	return product / scale, nil
}

// FormatSize renders a byte count back into the smallest exact unit-suffixed token,
// preferring whole gibibytes, then whole mebibytes, then fractional gibibytes.
// Byte counts with no exact M/G representation are rendered as raw bytes.
func FormatSize(bytes uint64) string {
	if bytes != 0 && bytes%GiB == 0 {
		return strconv.FormatUint(bytes/GiB, 10) + "G"
	}
	if bytes != 0 && bytes%MiB == 0 {
		return strconv.FormatUint(bytes/MiB, 10) + "M"
	}
	if s, ok := fractionalGiB(bytes); ok {
		return s
	}
	return strconv.FormatUint(bytes, 10) + "B"
}

// fractionalGiB attempts an exact decimal expansion of bytes in gibibytes.
func fractionalGiB(bytes uint64) (string, bool) {
	if bytes == 0 {
		return "", false
	}

	whole := bytes / GiB
	rem := bytes % GiB

	var digits strings.Builder
	for rem != 0 && digits.Len() < 9 {
		rem *= 10
		digits.WriteByte(byte('0' + rem/GiB))
		rem %= GiB
	}
	if rem != 0 {
		return "", false
	}

	return fmt.Sprintf("%d.%sG", whole, digits.String()), true
}
