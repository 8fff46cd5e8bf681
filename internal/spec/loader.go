package spec

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"primusgen/internal/logging"
)

// Loader reads taxonomy JSON files and caches them by composite key.
// The cache has no eviction: the taxonomy is static for the process
// lifetime. Construct one Loader at startup and inject it into callers.
type Loader struct {
	dir string

	mu         sync.RWMutex
	modules    map[string]*ModuleSpec
	submodules map[string]*SubmoduleSpec
	checklists map[string]*Checklist
}

// NewLoader creates a Loader rooted at the given data directory. The
// directory is expected to contain modules/, submodules/ and checklists/.
func NewLoader(dir string) *Loader {
	return &Loader{
		dir:        dir,
		modules:    make(map[string]*ModuleSpec),
		submodules: make(map[string]*SubmoduleSpec),
		checklists: make(map[string]*Checklist),
	}
}

// LoadModuleSpec returns the ModuleSpec for a module number ("1".."7").
func (l *Loader) LoadModuleSpec(moduleNumber string) (*ModuleSpec, error) {
	l.mu.RLock()
	if m, ok := l.modules[moduleNumber]; ok {
		l.mu.RUnlock()
		return m, nil
	}
	l.mu.RUnlock()

	path := filepath.Join(l.dir, "modules", fmt.Sprintf("module_%s.json", moduleNumber))
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("module spec %s: %w", moduleNumber, err)
	}

	var m ModuleSpec
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("module spec %s: %w", moduleNumber, err)
	}
	if m.ModuleNumber == "" || m.Name == "" {
		return nil, fmt.Errorf("module spec %s: missing module_number or name", moduleNumber)
	}
	if len(m.DocumentStructureTemplate) == 0 {
		return nil, fmt.Errorf("module spec %s: missing document_structure_template", moduleNumber)
	}

	l.mu.Lock()
	l.modules[moduleNumber] = &m
	l.mu.Unlock()

	logging.Spec("loaded module %s (%s): %d submodules", m.ModuleNumber, m.Name, len(m.Submodules))
	return &m, nil
}

// LoadSubmoduleSpec returns the SubmoduleSpec for a submodule code within a
// module. When the submodule is stored as a directory of sub-submodule
// files, a virtual SubmoduleSpec is synthesized from all children, sorted
// by requirement code.
func (l *Loader) LoadSubmoduleSpec(moduleNumber, code string) (*SubmoduleSpec, error) {
	key := moduleNumber + ":" + code

	l.mu.RLock()
	if s, ok := l.submodules[key]; ok {
		l.mu.RUnlock()
		return s, nil
	}
	l.mu.RUnlock()

	base := filepath.Join(l.dir, "submodules", "module_"+moduleNumber)

	var s *SubmoduleSpec
	subDir := filepath.Join(base, code)
	if fi, err := os.Stat(subDir); err == nil && fi.IsDir() {
		aggregated, err := l.aggregateSubSubmodules(moduleNumber, code, subDir)
		if err != nil {
			return nil, err
		}
		s = aggregated
	} else {
		loaded, err := readSubmoduleFile(filepath.Join(base, code+".json"))
		if err != nil {
			return nil, fmt.Errorf("submodule %s.%s: %w", moduleNumber, code, err)
		}
		s = loaded
	}

	l.mu.Lock()
	l.submodules[key] = s
	l.mu.Unlock()

	logging.Spec("loaded submodule %s (%s): %d requirements (aggregated=%v)",
		s.Code, s.Name, len(s.Requirements), s.HasSubSubmodules)
	return s, nil
}

// LoadChecklist returns the audit checklist for a module, or nil when no
// checklist file exists (checklists are optional per module).
func (l *Loader) LoadChecklist(moduleNumber string) (*Checklist, error) {
	l.mu.RLock()
	if c, ok := l.checklists[moduleNumber]; ok {
		l.mu.RUnlock()
		return c, nil
	}
	l.mu.RUnlock()

	path := filepath.Join(l.dir, "checklists", fmt.Sprintf("module_%s.json", moduleNumber))
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("checklist %s: %w", moduleNumber, err)
	}

	var c Checklist
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("checklist %s: %w", moduleNumber, err)
	}

	l.mu.Lock()
	l.checklists[moduleNumber] = &c
	l.mu.Unlock()
	return &c, nil
}

func readSubmoduleFile(path string) (*SubmoduleSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s SubmoduleSpec
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if s.Code == "" || s.Name == "" {
		return nil, fmt.Errorf("%s: missing code or name", filepath.Base(path))
	}
	return &s, nil
}

// aggregateSubSubmodules synthesizes a virtual SubmoduleSpec from every
// sub-submodule file in the directory, concatenating requirements and
// sorting them by code.
func (l *Loader) aggregateSubSubmodules(moduleNumber, code, dir string) (*SubmoduleSpec, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("submodule %s.%s: %w", moduleNumber, code, err)
	}

	agg := &SubmoduleSpec{
		ModuleNumber:     moduleNumber,
		Code:             code,
		HasSubSubmodules: true,
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		child, err := readSubmoduleFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("sub-submodule %s: %w", e.Name(), err)
		}
		if agg.Name == "" {
			agg.Name = child.Name
		}
		agg.Aliases = append(agg.Aliases, child.Aliases...)
		agg.Requirements = append(agg.Requirements, child.Requirements...)
	}
	if len(agg.Requirements) == 0 {
		return nil, fmt.Errorf("submodule %s.%s: no sub-submodule requirements found", moduleNumber, code)
	}

	sort.Slice(agg.Requirements, func(i, j int) bool {
		return CompareCodes(agg.Requirements[i].Code, agg.Requirements[j].Code) < 0
	})
	return agg, nil
}
