package matching

import (
	"regexp"
	"strings"
)

var (
	parenthetical = regexp.MustCompile(`\s*\(.*?\)`)
	decimalDot    = regexp.MustCompile(`(\d)\.(\d)`)
	numberWordGap = regexp.MustCompile(`(\d) (\w)`)
)

// NormalizeName rewrites a GC-MS metabolite name into the form used by VMH
// full names:
//  1. parentheticals are removed ("Alanine (2TMS)" -> "Alanine"),
//  2. dots between digits become commas ("2.3-diphospho" -> "2,3-diphospho"),
//  3. a digit and a following word separated by a space are hyphenated
//     ("2 hydroxybutyrate" -> "2-hydroxybutyrate").
//
// The result is lower-cased; all VMH name comparisons are case-insensitive.
func NormalizeName(name string) string {
	s := parenthetical.ReplaceAllString(name, "")
	s = decimalDot.ReplaceAllString(s, "$1,$2")
	s = numberWordGap.ReplaceAllString(s, "$1-$2")
	return strings.ToLower(strings.TrimSpace(s))
}
