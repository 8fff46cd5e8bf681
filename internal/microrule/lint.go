package microrule

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"primusgen/internal/logging"
)

// Rule is one mandatory or recommended phrase within a group.
type Rule struct {
	ID        string   `json:"id"`
	Text      string   `json:"text"`
	Mandatory bool     `json:"mandatory"`
	Section   int      `json:"section"`
	Keywords  []string `json:"keywords,omitempty"`
}

// Group is a loaded micro-rule category file.
type Group struct {
	Category Category `json:"category"`
	Rules    []Rule   `json:"rules"`
}

// Store loads micro-rule groups from data/micro_rules/{category}.json and
// caches them for the process lifetime.
type Store struct {
	dir string

	mu     sync.RWMutex
	groups map[Category]*Group
}

// NewStore creates a Store rooted at the micro_rules data directory.
func NewStore(dir string) *Store {
	return &Store{dir: dir, groups: make(map[Category]*Group)}
}

// LoadGroup reads one category's rule file. Missing files return nil:
// a category with no rule file simply has nothing to lint.
func (s *Store) LoadGroup(category Category) (*Group, error) {
	s.mu.RLock()
	if g, ok := s.groups[category]; ok {
		s.mu.RUnlock()
		return g, nil
	}
	s.mu.RUnlock()

	path := filepath.Join(s.dir, string(category)+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("micro-rule group %s: %w", category, err)
	}

	var g Group
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("micro-rule group %s: %w", category, err)
	}

	s.mu.Lock()
	s.groups[category] = &g
	s.mu.Unlock()
	return &g, nil
}

// LintReport summarizes a lint pass over a finished document.
type LintReport struct {
	Document     string   `json:"-"`
	InsertedIDs  []string `json:"inserted_ids"`
	MissingIDs   []string `json:"missing_ids"` // mandatory rules that could not be inserted
	CheckedRules int      `json:"checked_rules"`
}

// Clean reports whether the document already satisfied every mandatory rule.
func (r *LintReport) Clean() bool {
	return len(r.InsertedIDs) == 0 && len(r.MissingIDs) == 0
}

// Lint checks the document against the selected micro-rule groups and
// auto-inserts missing mandatory phrasing into the rule's target section.
// Insertion is refused entirely when it would land after Section 15 or
// touch the signature block; such rules are reported as missing instead.
func (s *Store) Lint(document string, categories []Category) (*LintReport, error) {
	report := &LintReport{Document: document}

	for _, category := range categories {
		group, err := s.LoadGroup(category)
		if err != nil {
			return nil, err
		}
		if group == nil {
			continue
		}
		for _, rule := range group.Rules {
			report.CheckedRules++
			if ruleSatisfied(report.Document, rule) {
				continue
			}
			if !rule.Mandatory {
				continue
			}
			inserted, ok := InsertAfterSection(report.Document, rule.Section, rule.Text)
			if !ok {
				logging.ValidationWarn("micro-rule %s: insertion refused (section %d)", rule.ID, rule.Section)
				report.MissingIDs = append(report.MissingIDs, rule.ID)
				continue
			}
			logging.Compliance("micro-rule %s: inserted into section %d", rule.ID, rule.Section)
			report.Document = inserted
			report.InsertedIDs = append(report.InsertedIDs, rule.ID)
		}
	}
	return report, nil
}

// ruleSatisfied reports whether the rule's phrasing is already present,
// either verbatim or via its keyword set (all keywords present).
func ruleSatisfied(document string, rule Rule) bool {
	lower := strings.ToLower(document)
	if strings.Contains(lower, strings.ToLower(rule.Text)) {
		return true
	}
	if len(rule.Keywords) == 0 {
		return false
	}
	for _, kw := range rule.Keywords {
		if !strings.Contains(lower, strings.ToLower(kw)) {
			return false
		}
	}
	return true
}

var sectionHeaderPattern = regexp.MustCompile(`(?m)^(\d{1,2})\.\s+[A-Z]`)

// InsertAfterSection appends text to the end of the numbered section.
// Returns the document unchanged (ok=false) when the section is 15 or
// beyond, when the section header cannot be found, or when the insertion
// point would fall inside or after the signature block. Corrupting the
// signature region is worse than a missing phrase.
func InsertAfterSection(document string, section int, text string) (string, bool) {
	if section <= 0 || section >= 15 {
		return document, false
	}

	locs := sectionHeaderPattern.FindAllStringSubmatchIndex(document, -1)
	start := -1
	end := len(document)
	for i, loc := range locs {
		num := document[loc[2]:loc[3]]
		if num == fmt.Sprintf("%d", section) {
			start = loc[0]
			if i+1 < len(locs) {
				end = locs[i+1][0]
			}
			break
		}
	}
	if start == -1 {
		return document, false
	}

	if sig := strings.LastIndex(document, "Approved By:"); sig != -1 && end > sig {
		return document, false
	}

	inserted := document[:end] + strings.TrimRight(text, "\n") + "\n\n" + document[end:]
	return inserted, true
}
