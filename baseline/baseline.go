// Package baseline implements icucheck.baseline, a file of findings the
// project has accepted. A finding is identified by an MD5 fingerprint of
// the rule, key, locale, description and strings involved, so it stays
// suppressed while those are unchanged and comes back as soon as the
// message or its translation is edited. Line numbers are left out so that
// unrelated edits to a file do not resurrect old findings.
package baseline

import (
	"crypto/md5"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/minios-linux/icucheck/result"
)

// FileName is the default baseline file name.
const FileName = "icucheck.baseline"

// Version is the baseline file format version.
const Version = 1

// ---------------------------------------------------------------------------
// Types
// ---------------------------------------------------------------------------

// Baseline represents the icucheck.baseline file structure.
type Baseline struct {
	Version  int                 `yaml:"version"`
	Findings map[string][]string `yaml:"findings"` // path -> sorted fingerprints

	mu    sync.Mutex          `yaml:"-"`
	path  string              `yaml:"-"`
	index map[string]struct{} `yaml:"-"`
}

// New returns an empty baseline that Save will write to path.
func New(path string) *Baseline {
	return &Baseline{
		Version:  Version,
		Findings: make(map[string][]string),
		path:     path,
	}
}

// ---------------------------------------------------------------------------
// Loading and saving
// ---------------------------------------------------------------------------

// Load reads a baseline file. Returns an empty baseline if the file
// doesn't exist.
func Load(path string) (*Baseline, error) {
	b := New(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return b, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, b); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if b.Version > Version {
		return nil, fmt.Errorf("%s: unsupported baseline version %d", path, b.Version)
	}
	b.path = path

	if b.Findings == nil {
		b.Findings = make(map[string][]string)
	}
	return b, nil
}

// Save writes the baseline to disk.
func (b *Baseline) Save() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.path == "" {
		return fmt.Errorf("baseline path not set")
	}

	data, err := yaml.Marshal(b)
	if err != nil {
		return fmt.Errorf("marshaling baseline: %w", err)
	}

	if err := os.WriteFile(b.path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", b.path, err)
	}
	return nil
}

// Path returns the baseline file path.
func (b *Baseline) Path() string {
	return b.path
}

// ---------------------------------------------------------------------------
// Fingerprints
// ---------------------------------------------------------------------------

// Hash computes the MD5 hex digest of a string.
func Hash(s string) string {
	return fmt.Sprintf("%x", md5.Sum([]byte(s)))
}

// Fingerprint identifies a finding independently of where in its file it is.
func Fingerprint(r result.Result) string {
	return Hash(strings.Join([]string{r.ID, r.Key, r.Locale, r.Description, r.Source, r.Highlight}, "\x00"))
}

// pathKey normalizes a result path for use as a map key.
func pathKey(path string) string {
	return filepath.ToSlash(path)
}

func (b *Baseline) buildIndex() {
	if b.index != nil {
		return
	}
	b.index = make(map[string]struct{})
	for path, fps := range b.Findings {
		for _, fp := range fps {
			b.index[path+"\x00"+fp] = struct{}{}
		}
	}
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

// Contains reports whether r has been accepted.
func (b *Baseline) Contains(r result.Result) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.buildIndex()
	_, ok := b.index[pathKey(r.PathName)+"\x00"+Fingerprint(r)]
	return ok
}

// Filter drops the accepted results and returns the rest along with the
// number dropped.
func (b *Baseline) Filter(results []result.Result) ([]result.Result, int) {
	kept := make([]result.Result, 0, len(results))
	for _, r := range results {
		if !b.Contains(r) {
			kept = append(kept, r)
		}
	}
	return kept, len(results) - len(kept)
}

// Update replaces the accepted findings with results.
func (b *Baseline) Update(results []result.Result) {
	b.mu.Lock()
	defer b.mu.Unlock()

	sets := make(map[string]map[string]bool)
	for _, r := range results {
		path := pathKey(r.PathName)
		if sets[path] == nil {
			sets[path] = make(map[string]bool)
		}
		sets[path][Fingerprint(r)] = true
	}

	b.Findings = make(map[string][]string, len(sets))
	for path, set := range sets {
		fps := make([]string, 0, len(set))
		for fp := range set {
			fps = append(fps, fp)
		}
		sort.Strings(fps)
		b.Findings[path] = fps
	}
	b.index = nil
}

// ---------------------------------------------------------------------------
// Stats
// ---------------------------------------------------------------------------

// Stats returns the number of files and total findings in the baseline.
func (b *Baseline) Stats() (files, findings int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	files = len(b.Findings)
	for _, fps := range b.Findings {
		findings += len(fps)
	}
	return
}

// Paths returns the sorted list of files with accepted findings.
func (b *Baseline) Paths() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	paths := make([]string, 0, len(b.Findings))
	for p := range b.Findings {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Summary returns a human-readable summary string.
func (b *Baseline) Summary() string {
	files, findings := b.Stats()
	if files == 0 {
		return "empty"
	}

	var parts []string
	for _, p := range b.Paths() {
		parts = append(parts, fmt.Sprintf("%s: %d", p, len(b.Findings[p])))
	}
	return fmt.Sprintf("%d files, %d findings (%s)", files, findings, strings.Join(parts, ", "))
}
