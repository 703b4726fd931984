package scanner

import (
	"fmt"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// Rules decides which directories are descended and which files are indexed.
type Rules struct {
	// IncludeExtensions are filename suffixes that mark a file as relevant.
	IncludeExtensions []string `yaml:"include_extensions"`
	// IncludeNames are exact filenames that are always relevant.
	IncludeNames []string `yaml:"include_names"`
	// IncludePatterns are doublestar globs. Patterns containing "/" match the
	// service-relative path; others match the base name.
	IncludePatterns []string `yaml:"include_patterns"`
	// ExcludeDirs are doublestar globs for build-artifact directories that are
	// never descended. Hidden directories are always skipped.
	ExcludeDirs []string `yaml:"exclude_dirs"`
}

// rulesFile is the on-disk YAML shape for scan rules.
type rulesFile struct {
	ReplaceDefaults bool `yaml:"replace_defaults"`
	Rules           `yaml:",inline"`
}

// DefaultRules returns the built-in allowlist and denylist.
func DefaultRules() Rules {
	return Rules{
		IncludeExtensions: []string{".rs", ".py", ".js", ".ts", ".json", ".toml", ".yml", ".yaml"},
		IncludeNames:      []string{"Dockerfile", "README.md", "Cargo.toml", "package.json", "requirements.txt"},
		ExcludeDirs:       []string{"target", "node_modules", "__pycache__"},
	}
}

// LoadRules reads scan rules from a YAML file. Unless the file sets
// replace_defaults, its lists extend DefaultRules.
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("read scan rules: %w", err)
	}
	var file rulesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Rules{}, fmt.Errorf("parse scan rules %s: %w", path, err)
	}
	rules := file.Rules
	if !file.ReplaceDefaults {
		rules = DefaultRules().Merge(file.Rules)
	}
	if err := rules.Validate(); err != nil {
		return Rules{}, fmt.Errorf("scan rules %s: %w", path, err)
	}
	return rules, nil
}

// Merge returns r extended with the entries of other.
func (r Rules) Merge(other Rules) Rules {
	return Rules{
		IncludeExtensions: appendUnique(r.IncludeExtensions, other.IncludeExtensions),
		IncludeNames:      appendUnique(r.IncludeNames, other.IncludeNames),
		IncludePatterns:   appendUnique(r.IncludePatterns, other.IncludePatterns),
		ExcludeDirs:       appendUnique(r.ExcludeDirs, other.ExcludeDirs),
	}
}

// Validate rejects malformed glob patterns.
func (r Rules) Validate() error {
	for _, pattern := range r.IncludePatterns {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid include pattern %q", pattern)
		}
	}
	for _, pattern := range r.ExcludeDirs {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}
	return nil
}

// SkipDir reports whether the directory at relPath (named name) must not be
// descended.
func (r Rules) SkipDir(relPath, name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	return matchAny(r.ExcludeDirs, relPath, name)
}

// IncludeFile reports whether the file at relPath (named name) is indexed.
func (r Rules) IncludeFile(relPath, name string) bool {
	for _, ext := range r.IncludeExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	for _, n := range r.IncludeNames {
		if name == n {
			return true
		}
	}
	return matchAny(r.IncludePatterns, relPath, name)
}

func matchAny(patterns []string, relPath, name string) bool {
	for _, pattern := range patterns {
		subject := name
		if strings.Contains(pattern, "/") {
			subject = relPath
		}
		// Patterns were validated up front; a bad one simply never matches.
		if ok, _ := doublestar.Match(pattern, subject); ok {
			return true
		}
	}
	return false
}

func appendUnique(base, extra []string) []string {
	out := make([]string, 0, len(base)+len(extra))
	seen := make(map[string]struct{}, len(base)+len(extra))
	for _, list := range [][]string{base, extra} {
		for _, v := range list {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}
