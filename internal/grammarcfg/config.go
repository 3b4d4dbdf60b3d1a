// Package grammarcfg loads grammar definitions from YAML files: the
// production rules, the start symbol, and any forbidden subtree patterns.
// It exists so the command-line tool and the examples can share one
// on-disk format without the core engine knowing about serialization.
package grammarcfg

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gitrdm/gosynth/pkg/synth"
)

// RuleSpec is one production rule as written in YAML. Rules are numbered
// from one in file order; patterns refer to them by that index.
type RuleSpec struct {
	Return   string   `yaml:"return"`
	Children []string `yaml:"children,omitempty"`
	Label    string   `yaml:"label,omitempty"`
}

// PatternSpec is one forbidden-pattern node. Rule zero is the wildcard.
type PatternSpec struct {
	Rule     int           `yaml:"rule"`
	Children []PatternSpec `yaml:"children,omitempty"`
}

// File is the YAML document layout.
type File struct {
	Start  string        `yaml:"start"`
	Rules  []RuleSpec    `yaml:"rules"`
	Forbid []PatternSpec `yaml:"forbid,omitempty"`
}

// Config is a loaded and validated grammar ready to enumerate.
type Config struct {
	Grammar     *synth.TableGrammar
	Start       synth.Symbol
	Constraints []synth.GrammarConstraint
}

// Load reads and parses the YAML file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("grammarcfg: reading %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("grammarcfg: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse builds a Config from YAML bytes.
func Parse(data []byte) (*Config, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing yaml: %w", err)
	}
	if f.Start == "" {
		return nil, fmt.Errorf("missing start symbol")
	}

	rules := make([]synth.Rule, len(f.Rules))
	for i, rs := range f.Rules {
		children := make([]synth.Symbol, len(rs.Children))
		for j, c := range rs.Children {
			children[j] = synth.Symbol(c)
		}
		rules[i] = synth.Rule{
			Return:   synth.Symbol(rs.Return),
			Children: children,
			Label:    rs.Label,
		}
	}
	g, err := synth.NewTableGrammar(rules)
	if err != nil {
		return nil, err
	}

	cfg := &Config{Grammar: g, Start: synth.Symbol(f.Start)}
	for i, ps := range f.Forbid {
		pat, err := buildPattern(ps, g.RuleCount())
		if err != nil {
			return nil, fmt.Errorf("forbid[%d]: %w", i, err)
		}
		fb, err := synth.NewForbidden(pat)
		if err != nil {
			return nil, fmt.Errorf("forbid[%d]: %w", i, err)
		}
		cfg.Constraints = append(cfg.Constraints, fb)
	}
	return cfg, nil
}

func buildPattern(ps PatternSpec, ruleCount int) (*synth.Pattern, error) {
	if ps.Rule < 0 || ps.Rule > ruleCount {
		return nil, fmt.Errorf("rule %d out of range (grammar has %d rules)", ps.Rule, ruleCount)
	}
	children := make([]*synth.Pattern, len(ps.Children))
	for i, cs := range ps.Children {
		c, err := buildPattern(cs, ruleCount)
		if err != nil {
			return nil, err
		}
		children[i] = c
	}
	return &synth.Pattern{Rule: ps.Rule, Children: children}, nil
}
