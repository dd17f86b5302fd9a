package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/reoring/coerce"
	"github.com/reoring/coerce/schema"
	"github.com/reoring/coerce/strategy"
)

const defaultConfigName = "coerce.toml"

// config mirrors coerce.toml.
//
//	schema = "answer.schema.json"
//	root = "Answer"
//	union = "first"
//
//	[load]
//	driver = "go-json"
//	max_depth = 64
//	max_bytes = 0
//	duplicate_keys = "ignore"
//
//	[aliases.Color]
//	crimson = "RED"
type config struct {
	Schema  string                       `toml:"schema"`
	Root    string                       `toml:"root"`
	Union   string                       `toml:"union"`
	Load    loadConfig                   `toml:"load"`
	Aliases map[string]map[string]string `toml:"aliases"`

	dir string
}

type loadConfig struct {
	Driver        string `toml:"driver"`
	MaxDepth      int    `toml:"max_depth"`
	MaxBytes      int64  `toml:"max_bytes"`
	DuplicateKeys string `toml:"duplicate_keys"`
}

// loadConfigFile reads path. An empty path falls back to ./coerce.toml when it
// exists, otherwise to a zero config.
func loadConfigFile(path string) (*config, error) {
	explicit := path != ""
	if !explicit {
		path = defaultConfigName
	}
	cfg := &config{}
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("load", "max_depth") && cfg.Load.MaxDepth <= 0 {
		return nil, fmt.Errorf("%s: [load].max_depth must be positive", path)
	}
	if cfg.Load.MaxBytes < 0 {
		return nil, fmt.Errorf("%s: [load].max_bytes must not be negative", path)
	}
	cfg.dir = filepath.Dir(path)
	return cfg, nil
}

func (c *config) loadOpt() (coerce.LoadOpt, error) {
	opt := coerce.DefaultLoadOpt()
	drv, err := coerce.ParseDriverName(c.Load.Driver)
	if err != nil {
		return opt, err
	}
	opt.Driver = drv
	if c.Load.MaxDepth > 0 {
		opt.MaxDepth = c.Load.MaxDepth
	}
	opt.MaxBytes = c.Load.MaxBytes
	switch strings.ToLower(c.Load.DuplicateKeys) {
	case "", "ignore":
		opt.OnDuplicateKey = coerce.Ignore
	case "warn":
		opt.OnDuplicateKey = coerce.Warn
	default:
		return opt, fmt.Errorf("unsupported duplicate_keys %q (must be ignore or warn)", c.Load.DuplicateKeys)
	}
	return opt, nil
}

func (c *config) unionPolicy() (strategy.UnionPolicy, error) {
	switch strings.ToLower(c.Union) {
	case "", "first":
		return strategy.UnionFirstMatch, nil
	case "rank":
		return strategy.UnionRankBest, nil
	}
	return 0, fmt.Errorf("unsupported union policy %q (must be first or rank)", c.Union)
}

// schemaPath resolves the schema file relative to the config file.
func (c *config) schemaPath() string {
	if c.Schema == "" || filepath.IsAbs(c.Schema) || c.dir == "" {
		return c.Schema
	}
	return filepath.Join(c.dir, c.Schema)
}

// readSchema parses a JSON or YAML schema document by extension.
func readSchema(path string) (*schema.Schema, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return schema.ParseYAML(b)
	}
	return schema.Parse(b)
}

// rootSchema selects the definition named root from doc. An empty name or
// the document's own title selects doc itself.
func rootSchema(doc *schema.Schema, root string) (*schema.Schema, error) {
	if root == "" || root == doc.Title {
		return doc, nil
	}
	if _, ok := doc.Definitions()[root]; !ok {
		return nil, fmt.Errorf("root %q is not defined in the schema", root)
	}
	return &schema.Schema{Ref: "#/$defs/" + root, Defs: doc.Definitions()}, nil
}

// buildDeserializer registers doc and applies the configured overloads.
func (c *config) buildDeserializer(doc *schema.Schema) (*coerce.Deserializer, error) {
	opt, err := c.loadOpt()
	if err != nil {
		return nil, err
	}
	policy, err := c.unionPolicy()
	if err != nil {
		return nil, err
	}
	root, err := rootSchema(doc, c.Root)
	if err != nil {
		return nil, err
	}
	reg := coerce.NewRegistry()
	if err := reg.RegisterDocument(doc, nil); err != nil {
		return nil, err
	}
	ds := coerce.NewDeserializer(reg, root, coerce.WithLoadOpt(opt), coerce.WithUnionPolicy(policy))
	for _, name := range sortedNames(c.Aliases) {
		if err := ds.Overload(name, c.Aliases[name]); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

func sortedNames(m map[string]map[string]string) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// parseAliasFlag parses NAME.alias=target.
func parseAliasFlag(s string) (name, alias, target string, err error) {
	lhs, target, ok := strings.Cut(s, "=")
	if !ok {
		return "", "", "", fmt.Errorf("alias %q: expected NAME.alias=target", s)
	}
	name, alias, ok = strings.Cut(lhs, ".")
	if !ok || name == "" || alias == "" || target == "" {
		return "", "", "", fmt.Errorf("alias %q: expected NAME.alias=target", s)
	}
	return name, alias, target, nil
}

func (c *config) addAlias(name, alias, target string) {
	if c.Aliases == nil {
		c.Aliases = map[string]map[string]string{}
	}
	if c.Aliases[name] == nil {
		c.Aliases[name] = map[string]string{}
	}
	c.Aliases[name][alias] = target
}
