package ruleset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/randalmurphal/rulekit/pkg/rulekit/config"
	"github.com/randalmurphal/rulekit/pkg/rulekit/store"
)

// Format identifies a ruleset file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatFromPath picks a Format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %q", config.ErrUnsupportedFormat, ext)
	}
}

// document is the on-disk shape of a ruleset.
type document struct {
	Name      string         `yaml:"name" json:"name" toml:"name"`
	Constants map[string]any `yaml:"constants,omitempty" json:"constants,omitempty" toml:"constants,omitempty"`
	Rules     []Rule         `yaml:"rules" json:"rules" toml:"rules"`
}

// Load reads a ruleset file, choosing the decoder by extension. A file
// without a name field is named after the file.
func Load(path string, opts ...Option) (*Ruleset, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ruleset: %w", err)
	}

	doc, err := decode(data, format)
	if err != nil {
		return nil, err
	}
	if doc.Name == "" {
		doc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return fromDocument(doc, opts)
}

// Parse decodes a ruleset from data in the given format.
func Parse(data []byte, format Format, opts ...Option) (*Ruleset, error) {
	doc, err := decode(data, format)
	if err != nil {
		return nil, err
	}
	return fromDocument(doc, opts)
}

func decode(data []byte, format Format) (document, error) {
	var doc document
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return document{}, fmt.Errorf("parse yaml ruleset: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return document{}, fmt.Errorf("parse json ruleset: %w", err)
		}
	case FormatTOML:
		md, err := toml.Decode(string(data), &doc)
		if err != nil {
			return document{}, fmt.Errorf("parse toml ruleset: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return document{}, fmt.Errorf("parse toml ruleset: unknown key %q", undecoded[0].String())
		}
	default:
		return document{}, fmt.Errorf("%w: %q", config.ErrUnsupportedFormat, format)
	}
	return doc, nil
}

func fromDocument(doc document, opts []Option) (*Ruleset, error) {
	// File constants sit underneath any passed in by the caller.
	all := append([]Option{WithConstants(doc.Constants)}, opts...)
	return New(doc.Name, doc.Rules, all...)
}

// FromStore builds a ruleset from every entry of a stored set, in stored
// order.
func FromStore(s store.Store, set string, opts ...Option) (*Ruleset, error) {
	entries, err := s.List(set)
	if err != nil {
		return nil, fmt.Errorf("load rule set %q: %w", set, err)
	}

	rules := make([]Rule, len(entries))
	for i, e := range entries {
		rules[i] = Rule{
			ID:          e.ID,
			Name:        e.Name,
			Expression:  e.Expression,
			Description: e.Description,
			Message:     e.Message,
		}
	}
	return New(set, rules, opts...)
}

// Save writes every rule of rs into the store under the ruleset's name,
// replacing what the set held before.
func (rs *Ruleset) Save(s store.Store) error {
	if err := s.DeleteSet(rs.name); err != nil {
		return fmt.Errorf("save rule set %q: %w", rs.name, err)
	}
	for _, r := range rs.rules {
		err := s.Save(rs.name, store.Entry{
			ID:          r.ID,
			Name:        r.Name,
			Expression:  r.Expression,
			Description: r.Description,
			Message:     r.Message,
		})
		if err != nil {
			return fmt.Errorf("save rule %q: %w", r.Name, err)
		}
	}
	return nil
}

// Marshal encodes rs in the given format, constants included.
func (rs *Ruleset) Marshal(format Format) ([]byte, error) {
	doc := document{
		Name:      rs.name,
		Constants: rs.constants.Raw(),
		Rules:     rs.Rules(),
	}
	if len(doc.Constants) == 0 {
		doc.Constants = nil
	}

	switch format {
	case FormatYAML:
		return yaml.Marshal(doc)
	case FormatJSON:
		return json.MarshalIndent(doc, "", "  ")
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
			return nil, fmt.Errorf("encode toml ruleset: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnsupportedFormat, format)
	}
}
