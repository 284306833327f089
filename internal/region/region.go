// Package region normalizes the two region-name conventions used across
// the portal: reviewer accounts carry short codes ("Region 1") while
// institution rows store the canonical form ("Region I"). Registration
// rows additionally hold free text typed by applicants, so matching
// tolerates qualifiers and formatting drift.
package region

import "strings"

var canonical = map[string]string{
	"region 1":  "Region I",
	"region 2":  "Region II",
	"region 3":  "Region III",
	"region 4a": "Region IV-A",
	"region 4b": "Region IV-B",
	"region 5":  "Region V",
	"region 6":  "Region VI",
	"region 7":  "Region VII",
	"region 8":  "Region VIII",
	"region 9":  "Region IX",
	"region 10": "Region X",
	"region 11": "Region XI",
	"region 12": "Region XII",
	"region 13": "Region XIII",
}

// Canonical maps a short region code to its canonical form, ignoring case
// and spacing. Values not in the table (NCR, CAR, BARMM, already-canonical
// names, "ALL") pass through trimmed but otherwise unchanged.
func Canonical(code string) string {
	if mapped, ok := canonical[normalize(code)]; ok {
		return mapped
	}
	return strings.TrimSpace(code)
}

// Match compares a stored region value against a reviewer's region. The
// stored side may be applicant free text in either convention, so its
// parenthetical qualifier is stripped and both sides are canonicalized
// before the casefolded comparison. A reviewer region of "ALL" matches
// everything.
func Match(stored, reviewer string) bool {
	if strings.EqualFold(strings.TrimSpace(reviewer), "ALL") {
		return true
	}
	return normalize(Canonical(stripQualifier(stored))) == normalize(Canonical(reviewer))
}

func stripQualifier(raw string) string {
	if i := strings.IndexByte(raw, '('); i >= 0 {
		raw = raw[:i]
	}
	return strings.TrimSpace(raw)
}

func normalize(raw string) string {
	return strings.ToLower(strings.Join(strings.Fields(stripQualifier(raw)), " "))
}
