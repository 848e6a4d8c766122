package discuss

import (
	"regexp"
	"strings"

	"github.com/hupe1980/panelmesh/core"
)

// credentialSuffix strips trailing titles ("Captain Whiskers, PhD" matches as
// "Captain Whiskers") so credentials never defeat a name match.
var credentialSuffix = regexp.MustCompile(`,\s*(PhD|MD|PsyD|LCSW).*$`)

// DetectReferences returns the ids of panel members other than self whose
// display name occurs in text, in members order.
//
// Matching is a case-insensitive substring heuristic over three forms of each
// name: the full name with credential suffixes stripped, its first two words
// ("Dr. Ada", "Captain Whiskers"), and a distinctive last name longer than
// three characters. Pronoun-only references ("as she said") are not detected
// and short last names are skipped to avoid false positives; both are
// accepted costs of keeping detection deterministic and offline.
func DetectReferences(text, selfID string, members []*core.Persona) []string {
	refs := []string{}
	lower := strings.ToLower(text)

	for _, m := range members {
		if m.ID == selfID || m.Name == "" {
			continue
		}

		clean := credentialSuffix.ReplaceAllString(m.Name, "")
		if strings.Contains(lower, strings.ToLower(clean)) {
			refs = append(refs, m.ID)
			continue
		}

		words := strings.Fields(clean)
		if len(words) < 2 {
			continue
		}

		if partial := strings.Join(words[:2], " "); strings.Contains(lower, strings.ToLower(partial)) {
			refs = append(refs, m.ID)
			continue
		}

		if last := words[len(words)-1]; len(last) > 3 && strings.Contains(lower, strings.ToLower(last)) {
			refs = append(refs, m.ID)
		}
	}

	return refs
}
