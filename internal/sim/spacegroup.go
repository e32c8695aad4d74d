package sim

import "regexp"

// Job names embed the full international space group symbol between the
// composition and the energy tag, e.g. "GO-1.0-2-LiF_Pm-3m_-2.89_2x1x1".
// The three patterns fall back from the full LiF composition to the
// single-element names used by some subsets.
var spaceGroupPatterns = []*regexp.Regexp{
	regexp.MustCompile(`LiF_(\w+?\S\w+)_-\d`),
	regexp.MustCompile(`F_(\w+?\S\w+)_-?\d`),
	regexp.MustCompile(`Li_(\w+?\S\w+)_-?\d`),
}

// SpaceGroupFromName extracts the space group symbol from a job name, or
// returns "" when the name does not carry one. The symbol keeps the
// LaTeX-like notation with screw axes as underscores ("P6_3mc").
func SpaceGroupFromName(name string) string {
	for _, pattern := range spaceGroupPatterns {
		if m := pattern.FindStringSubmatch(name); m != nil {
			return m[1]
		}
	}
	return ""
}
