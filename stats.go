package tyrant

import "strings"

// ParseStat parses a raw status blob into a name/value map. The server
// formats its status as one "name TAB value" pair per line. Malformed
// lines are skipped.
//
// Typical names: pid, version, rnum, size, time, ru_real, ru_user.
func ParseStat(blob []byte) map[string]string {
	stats := make(map[string]string)

	for _, line := range strings.Split(string(blob), "\n") {
		if line == "" {
			continue
		}
		name, value, found := strings.Cut(line, "\t")
		if !found {
			continue
		}
		stats[name] = value
	}

	return stats
}
