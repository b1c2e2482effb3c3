package placement

import (
	"regexp"
	"sort"
	"strconv"

	"github.com/kataras/kicad-xyrs/pkg/board"
)

// FilterOptions tune which footprints are placeable.
type FilterOptions struct {
	// KeepDNP keeps do-not-place parts in the output; formats mark them
	// through their DNP/Populate columns instead.
	KeepDNP bool
}

// Skipped is a footprint left out of the output and the reason why.
type Skipped struct {
	Reference string
	Reason    string
}

// Filter splits fps into placeable footprints and skipped ones, keeping
// input order in both.
func Filter(fps []board.Footprint, opts FilterOptions) (kept []board.Footprint, skipped []Skipped) {
	kept = make([]board.Footprint, 0, len(fps))
	for _, fp := range fps {
		if reason := fp.ExcludeReason(opts.KeepDNP); reason != "" {
			skipped = append(skipped, Skipped{Reference: fp.Reference, Reason: reason})
			continue
		}
		kept = append(kept, fp)
	}
	return kept, skipped
}

// DuplicateReferences returns each reference designator that appears more
// than once, in order of first repetition.
func DuplicateReferences(fps []board.Footprint) []string {
	seen := make(map[string]int, len(fps))
	var dups []string
	for _, fp := range fps {
		seen[fp.Reference]++
		if seen[fp.Reference] == 2 {
			dups = append(dups, fp.Reference)
		}
	}
	return dups
}

var refdesPattern = regexp.MustCompile(`^([A-Za-z]+)(\d+)`)

type refdesKey struct {
	prefix string
	number int
}

func parseRefdes(ref string) refdesKey {
	m := refdesPattern.FindStringSubmatch(ref)
	if m == nil {
		return refdesKey{prefix: ref}
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return refdesKey{prefix: ref}
	}
	return refdesKey{prefix: m[1], number: n}
}

// SortByReference orders fps naturally by reference designator, so that
// R2 comes before R10. The sort is stable.
func SortByReference(fps []board.Footprint) {
	sort.SliceStable(fps, func(i, j int) bool {
		a, b := parseRefdes(fps[i].Reference), parseRefdes(fps[j].Reference)
		if a.prefix != b.prefix {
			return a.prefix < b.prefix
		}
		return a.number < b.number
	})
}
