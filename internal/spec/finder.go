package spec

import (
	"strings"

	"primusgen/internal/logging"
)

// FindSubmoduleSpecByName resolves a submodule from free-form document and
// submodule names. Matching priority:
//
//  1. exact sub-submodule code in the combined search text
//  2. exact submodule code or alias substring
//  3. keyword match: at least two words (len > 3) of the submodule's
//     display name present in the search text
//
// Returns nil when nothing matches. Callers must treat nil as "fall back
// to generic generation", never as a failure.
func (l *Loader) FindSubmoduleSpecByName(moduleNumber, documentName, subModuleName string) *SubmoduleSpec {
	search := strings.ToLower(strings.TrimSpace(documentName + " " + subModuleName))
	if search == "" {
		return nil
	}

	mod, err := l.LoadModuleSpec(moduleNumber)
	if err != nil {
		logging.SpecWarn("find submodule: module %s unavailable: %v", moduleNumber, err)
		return nil
	}

	// Priority 1: a full requirement-style code in the search text names a
	// sub-submodule directly.
	if code := RequirementCodePattern.FindString(search); code != "" {
		parent := parentCode(code)
		if s, err := l.LoadSubmoduleSpec(moduleNumber, parent); err == nil {
			logging.Spec("find submodule: matched code %s -> %s", code, parent)
			return s
		}
	}

	// Priority 2: submodule code or alias substring.
	for _, ref := range mod.Submodules {
		if strings.Contains(search, strings.ToLower(ref.Code)) {
			return l.loadRef(moduleNumber, ref)
		}
		for _, alias := range ref.Aliases {
			if alias != "" && strings.Contains(search, strings.ToLower(alias)) {
				return l.loadRef(moduleNumber, ref)
			}
		}
	}

	// Priority 3: two or more significant words of the display name.
	for _, ref := range mod.Submodules {
		hits := 0
		for _, word := range strings.Fields(strings.ToLower(ref.Name)) {
			if len(word) > 3 && strings.Contains(search, word) {
				hits++
			}
		}
		if hits >= 2 {
			logging.Spec("find submodule: keyword match %q (%d hits)", ref.Name, hits)
			return l.loadRef(moduleNumber, ref)
		}
	}

	logging.SpecWarn("find submodule: no match for %q in module %s", search, moduleNumber)
	return nil
}

func (l *Loader) loadRef(moduleNumber string, ref SubmoduleRef) *SubmoduleSpec {
	s, err := l.LoadSubmoduleSpec(moduleNumber, ref.Code)
	if err != nil {
		logging.SpecWarn("find submodule: load %s.%s failed: %v", moduleNumber, ref.Code, err)
		return nil
	}
	return s
}

// parentCode reduces a sub-submodule code ("5.12.03a") to its submodule
// code ("5.12").
func parentCode(code string) string {
	parts := strings.SplitN(code, ".", 3)
	if len(parts) < 2 {
		return code
	}
	return parts[0] + "." + parts[1]
}
