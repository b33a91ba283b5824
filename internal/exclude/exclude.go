// Package exclude decides which project entries are left out of a snapshot.
//
// A [Matcher] holds an ordered list of rules. Each rule is classified once,
// when the matcher is built:
//
//   - "*.ext" matches any entry whose final component ends in ".ext",
//     ignoring case.
//   - a pattern containing "/" matches the relative path itself or anything
//     beneath it ("build/out" excludes "build/out" and "build/out/x").
//   - any other pattern names a path component. It excludes an entry when
//     an intermediate directory has that name, or when the entry itself has
//     that name and exists as a file or directory.
//
// The first rule that matches wins. There is no negation.
package exclude

import (
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Kind describes the filesystem type of a matched entry.
type Kind int

const (
	// KindOther covers entries that are missing or neither file nor directory.
	KindOther Kind = iota
	KindFile
	KindDir
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDir:
		return "dir"
	default:
		return "other"
	}
}

type ruleKind int

const (
	ruleSuffix ruleKind = iota
	ruleComponent
	rulePrefix
)

type rule struct {
	pattern string
	kind    ruleKind
	// lowercased ".ext" for suffix rules
	suffix string
}

// Matcher is an immutable, ordered set of exclusion rules.
// It is safe for concurrent use.
type Matcher struct {
	patterns []string
	rules    []rule
}

// DefaultPatterns returns the exclusion list used when none is configured.
func DefaultPatterns() []string {
	return []string{
		"node_modules",
		"dist",
		"out",
		".git",
		"release",
		"__pycache__",
		"*.log",
		"*.lock",
		"*.exe",
		"*.dll",
		"*.zip",
		"*.tar.gz",
		"checkpoint_config.json",
		"checkpoint_info.txt",
	}
}

// New builds a Matcher from patterns. Patterns are trimmed and host
// separators are converted to "/"; empty patterns are dropped.
func New(patterns []string) *Matcher {
	m := &Matcher{}
	for _, p := range patterns {
		p = filepath.ToSlash(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		m.patterns = append(m.patterns, p)
		m.rules = append(m.rules, classify(p))
	}
	return m
}

func classify(p string) rule {
	switch {
	case strings.HasPrefix(p, "*."):
		return rule{pattern: p, kind: ruleSuffix, suffix: strings.ToLower(p[1:])}
	case strings.Contains(p, "/"):
		// "build/" means the top-level build directory, not every build component
		return rule{pattern: strings.TrimRight(p, "/"), kind: rulePrefix}
	default:
		return rule{pattern: p, kind: ruleComponent}
	}
}

// Patterns returns the normalized patterns in rule order.
func (m *Matcher) Patterns() []string {
	out := make([]string, len(m.patterns))
	copy(out, m.patterns)
	return out
}

// Len reports the number of rules.
func (m *Matcher) Len() int {
	return len(m.rules)
}

// With returns a new Matcher with extra appended after the existing rules.
func (m *Matcher) With(extra ...string) *Matcher {
	return New(append(m.Patterns(), extra...))
}

// Match reports whether the forward-slash relative path rel, whose entry has
// the given kind, is excluded. The empty path and "." (the root) never match.
func (m *Matcher) Match(rel string, kind Kind) bool {
	rel = strings.TrimPrefix(path.Clean(filepath.ToSlash(rel)), "./")
	if rel == "." || rel == "" || rel == "/" {
		return false
	}
	parts := strings.Split(rel, "/")
	for _, r := range m.rules {
		if r.match(rel, parts, kind) {
			return true
		}
	}
	return false
}

func (r rule) match(rel string, parts []string, kind Kind) bool {
	switch r.kind {
	case ruleSuffix:
		return strings.HasSuffix(strings.ToLower(parts[len(parts)-1]), r.suffix)
	case ruleComponent:
		last := len(parts) - 1
		for i, p := range parts {
			if p != r.pattern {
				continue
			}
			if i < last || kind == KindDir || kind == KindFile {
				return true
			}
		}
		return false
	default:
		if r.pattern == "" {
			return false
		}
		return rel == r.pattern || strings.HasPrefix(rel, r.pattern+"/")
	}
}

// IsExcluded resolves path against base and reports whether it is excluded.
// Paths outside base are judged by their final component alone. The entry
// kind comes from os.Stat, so symlinks are judged by their target.
func (m *Matcher) IsExcluded(p, base string) bool {
	absPath, err := filepath.Abs(p)
	if err != nil {
		return m.Match(filepath.Base(p), statKind(p))
	}
	absBase, err := filepath.Abs(base)
	if err != nil {
		return m.Match(filepath.Base(absPath), statKind(absPath))
	}

	kind := statKind(absPath)
	rel, err := filepath.Rel(absBase, absPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return m.Match(filepath.Base(absPath), kind)
	}
	return m.Match(filepath.ToSlash(rel), kind)
}

// KindOf converts a file mode to a Kind.
func KindOf(mode os.FileMode) Kind {
	switch {
	case mode.IsDir():
		return KindDir
	case mode.IsRegular():
		return KindFile
	default:
		return KindOther
	}
}

func statKind(p string) Kind {
	info, err := os.Stat(p)
	if err != nil {
		return KindOther
	}
	return KindOf(info.Mode())
}
