// Package config loads named tokenizer rule sets from JSON5 files.
//
// A config file looks like:
//
//	{
//	  "rule_sets": {
//	    "calc": {
//	      "description": "Integer literals and the four arithmetic operators.",
//	      "rules": [
//	        { "pattern": "[0-9]+", "kind": "number" },
//	        { "pattern": "[+\\-*/]", "kind": "operator" },
//	        { "pattern": "[ \\t]+", "kind": "space", "skip": true },
//	      ],
//	    },
//	  },
//	}
//
// Rules are tried in the order listed; see package tokenizer for how they are
// applied.
package config

import (
	"bytes"
	"context"
	_ "embed" // For embed functionality.
	"encoding/json"
	"errors"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/flynn/json5"
	multierror "github.com/hashicorp/go-multierror"
	"go.scalc.org/scalc/go/jsonschema"
	"go.scalc.org/scalc/go/skerr"
	"go.scalc.org/scalc/go/sklog"
	"go.scalc.org/scalc/go/tokenizer"
	"go.scalc.org/scalc/go/util"
)

//go:embed schema.json
var schema []byte

//go:embed default.json5
var defaultDocument []byte

// Rule is a single pattern and the kind of token it produces.
type Rule struct {
	// Pattern is a Go regexp. It must match the whole token.
	Pattern string `json:"pattern" jsonschema:"minLength=1"`

	// Kind is reported on every token this rule produces, e.g. "number".
	Kind string `json:"kind" jsonschema:"minLength=1"`

	// Skip marks tokens, such as whitespace, that are consumed but not
	// reported.
	Skip bool `json:"skip,omitempty"`
}

// RuleSet is an ordered list of rules.
type RuleSet struct {
	Description string `json:"description,omitempty"`
	Rules       []Rule `json:"rules" jsonschema:"minItems=1"`
}

// Config is the top level of a config file.
type Config struct {
	RuleSets map[string]RuleSet `json:"rule_sets"`

	// parsers are built once by Parse and shared read-only afterwards.
	parsers map[string]*tokenizer.Parser[Token]
}

// Token is produced by every Parser built from a Config.
type Token struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
	Skip bool   `json:"skip,omitempty"`
}

// Describe returns the token kind and its text.
func (t Token) Describe() (string, string) {
	return t.Kind, t.Text
}

// Skipped is true for tokens from rules with skip set.
func (t Token) Skipped() bool {
	return t.Skip
}

// Parse decodes a JSON5 document, validates it against the config schema and
// compiles every rule set. Any bad pattern fails the whole document.
func Parse(ctx context.Context, document []byte) (*Config, error) {
	var raw interface{}
	if err := json5.NewDecoder(bytes.NewReader(document)).Decode(&raw); err != nil {
		return nil, skerr.Wrapf(err, "decoding JSON5")
	}
	// Validation works on plain JSON.
	asJSON, err := json.Marshal(raw)
	if err != nil {
		return nil, skerr.Wrap(err)
	}
	violations, err := jsonschema.Validate(ctx, asJSON, schema)
	if err != nil {
		if errors.Is(err, jsonschema.ErrSchemaViolation) {
			for _, v := range violations {
				sklog.Error(v)
			}
			return nil, skerr.Wrapf(err, "%s", strings.Join(violations, "; "))
		}
		return nil, skerr.Wrap(err)
	}

	var cfg Config
	if err := json.Unmarshal(asJSON, &cfg); err != nil {
		return nil, skerr.Wrapf(err, "decoding config")
	}
	// Every bad rule set is reported, not just the first.
	var compileErr *multierror.Error
	cfg.parsers = make(map[string]*tokenizer.Parser[Token], len(cfg.RuleSets))
	for _, name := range cfg.Names() {
		p, err := cfg.RuleSets[name].parser()
		if err != nil {
			compileErr = multierror.Append(compileErr, skerr.Wrapf(err, "rule set %q", name))
			continue
		}
		cfg.parsers[name] = p
	}
	if err := compileErr.ErrorOrNil(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (rs RuleSet) parser() (*tokenizer.Parser[Token], error) {
	p := tokenizer.New[Token]()
	for _, r := range rs.Rules {
		kind, skip := r.Kind, r.Skip
		err := p.Add(r.Pattern, func(s string) Token {
			return Token{Kind: kind, Text: s, Skip: skip}
		})
		if err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Load reads and parses the config file at path.
func Load(ctx context.Context, path string) (*Config, error) {
	var cfg *Config
	err := util.WithReadFile(path, func(r io.Reader) error {
		document, err := io.ReadAll(r)
		if err != nil {
			return skerr.Wrap(err)
		}
		cfg, err = Parse(ctx, document)
		return err
	})
	if err != nil {
		return nil, skerr.Wrapf(err, "loading config %s", path)
	}
	return cfg, nil
}

// Default returns the built-in rule sets.
func Default(ctx context.Context) (*Config, error) {
	return Parse(ctx, defaultDocument)
}

// Names returns the rule set names, sorted.
func (c *Config) Names() []string {
	return slices.Sorted(maps.Keys(c.RuleSets))
}

// Parser returns the compiled rule set with the given name.
func (c *Config) Parser(name string) (*tokenizer.Parser[Token], error) {
	p, ok := c.parsers[name]
	if !ok {
		return nil, skerr.Fmt("unknown rule set %q, want one of %q", name, c.Names())
	}
	return p, nil
}

// Parsers returns all compiled rule sets keyed by name.
func (c *Config) Parsers() map[string]*tokenizer.Parser[Token] {
	return maps.Clone(c.parsers)
}

// Schema returns the JSON Schema that config files are validated against.
func Schema() []byte {
	return slices.Clone(schema)
}
