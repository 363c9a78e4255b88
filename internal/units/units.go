// Package units parses human-readable byte sizes like "64", "1KB" or "10MB".
//
// A bare number defaults to kibibytes, matching the historical contract of
// the import chunk-size flag.
package units

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	// KiB is one kibibyte.
	KiB int64 = 1024
	// MiB is one mebibyte.
	MiB = 1024 * KiB
	// GiB is one gibibyte.
	GiB = 1024 * MiB
)

// DefaultChunkSize is returned for the special value "none".
const DefaultChunkSize = 64 * KiB

var sizePattern = regexp.MustCompile(`^(\d+)\s*([KMG]B?|B)?$`)

var multipliers = map[string]int64{
	"":   KiB, // no unit defaults to kibibytes
	"B":  1,
	"K":  KiB,
	"KB": KiB,
	"M":  MiB,
	"MB": MiB,
	"G":  GiB,
	"GB": GiB,
}

// Parse converts a size string with an optional unit suffix into a byte
// count. Recognized units are K/KB, M/MB and G/GB; the absence of a unit
// means kibibytes. Malformed input yields an error.
func Parse(s string) (int64, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "NONE" {
		return DefaultChunkSize, nil
	}

	m := sizePattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("units: invalid size %q", s)
	}

	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("units: invalid size %q: %w", s, err)
	}
	mult, ok := multipliers[m[2]]
	if !ok {
		return 0, fmt.Errorf("units: invalid unit %q", m[2])
	}
	return n * mult, nil
}
