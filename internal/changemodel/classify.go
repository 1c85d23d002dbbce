package changemodel

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// ClassificationRuleConfig describes one rule for deciding whether a file
// path is source or non-source. Rules are evaluated in descending Priority
// order; the first match wins. Generalizes the teacher's tag/filename-based
// NodeClassifier rules (internal/vault/classification_config.go) to
// extension/glob/path rules over file paths.
type ClassificationRuleConfig struct {
	Name     string   `yaml:"name"`
	Type     string   `yaml:"type"` // "extension", "glob", "path_contains", "regex"
	Pattern  string   `yaml:"pattern"`
	FileType FileType `yaml:"file_type"`
	Priority int      `yaml:"priority"`
}

// ClassificationConfig is the YAML-configurable rule set plus the fallback
// used when no rule matches.
type ClassificationConfig struct {
	Rules              []ClassificationRuleConfig `yaml:"rules"`
	DefaultFileType    FileType                   `yaml:"default_file_type"`
}

// DefaultClassificationConfig classifies common Go/Java/Python/JS source
// extensions as source and everything else (config, docs, data) as
// non-source, matching the spec's "source vs non-source" split (§3, §4.3).
func DefaultClassificationConfig() ClassificationConfig {
	return ClassificationConfig{
		DefaultFileType: FileTypeNonSource,
		Rules: []ClassificationRuleConfig{
			{Name: "go-source", Type: "extension", Pattern: ".go", FileType: FileTypeSource, Priority: 100},
			{Name: "java-source", Type: "extension", Pattern: ".java", FileType: FileTypeSource, Priority: 100},
			{Name: "python-source", Type: "extension", Pattern: ".py", FileType: FileTypeSource, Priority: 100},
			{Name: "js-ts-source", Type: "regex", Pattern: `\.(m|c)?(j|t)sx?$`, FileType: FileTypeSource, Priority: 100},
			{Name: "generated", Type: "path_contains", Pattern: "/generated/", FileType: FileTypeNonSource, Priority: 200},
			{Name: "vendor", Type: "path_contains", Pattern: "/vendor/", FileType: FileTypeNonSource, Priority: 200},
		},
	}
}

type matcher func(relativePath string) bool

// FileTypeClassifier classifies DiffFiles as source or non-source by
// relative path, using ordered rules with a fallback default.
type FileTypeClassifier struct {
	rules   []compiledRule
	fallback FileType
}

type compiledRule struct {
	name     string
	priority int
	match    matcher
	fileType FileType
}

// NewFileTypeClassifier compiles a ClassificationConfig into a classifier.
// Rules with an unknown Type are rejected; callers are expected to validate
// configuration at startup rather than per-file.
func NewFileTypeClassifier(cfg ClassificationConfig) (*FileTypeClassifier, error) {
	rules := make([]compiledRule, 0, len(cfg.Rules))
	for _, rc := range cfg.Rules {
		m, err := compileMatcher(rc)
		if err != nil {
			return nil, fmt.Errorf("classification rule %q: %w", rc.Name, err)
		}
		rules = append(rules, compiledRule{name: rc.Name, priority: rc.Priority, match: m, fileType: rc.FileType})
	}
	sort.SliceStable(rules, func(i, j int) bool { return rules[i].priority > rules[j].priority })

	return &FileTypeClassifier{rules: rules, fallback: cfg.DefaultFileType}, nil
}

func compileMatcher(rc ClassificationRuleConfig) (matcher, error) {
	switch rc.Type {
	case "extension":
		ext := rc.Pattern
		return func(path string) bool {
			return strings.EqualFold(filepath.Ext(path), ext)
		}, nil
	case "glob":
		pattern := rc.Pattern
		if _, err := filepath.Match(pattern, "probe"); err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}
		return func(path string) bool {
			ok, _ := filepath.Match(pattern, filepath.Base(path))
			return ok
		}, nil
	case "path_contains":
		sub := rc.Pattern
		return func(path string) bool {
			// The leading "/" lets a pattern such as "/vendor/" match a
			// top-level directory as well as a nested one.
			return strings.Contains("/"+path, sub)
		}, nil
	case "regex":
		re, err := regexp.Compile(rc.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid regex %q: %w", rc.Pattern, err)
		}
		return func(path string) bool {
			return re.MatchString(path)
		}, nil
	default:
		return nil, fmt.Errorf("unknown rule type %q", rc.Type)
	}
}

// Classify returns the FileType for a relative file path, consulting rules
// in descending priority order and falling back to the configured default.
func (c *FileTypeClassifier) Classify(relativePath string) FileType {
	for _, r := range c.rules {
		if r.match(relativePath) {
			return r.fileType
		}
	}
	return c.fallback
}

// ClassifyFiles assigns FileType to every DiffFile in place.
func (c *FileTypeClassifier) ClassifyFiles(files []DiffFile) {
	for i := range files {
		files[i].FileType = c.Classify(files[i].RelativePath)
	}
}
