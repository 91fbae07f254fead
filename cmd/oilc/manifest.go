package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/oil"
)

// manifestFile describes a composition: the composable modules to
// register and the main source to compose against them.
//
//	modules:
//	  - name: lighting
//	    path: shaders/lighting.wgsl
//	    defs: [SPECULAR, SHADOW_PCF]
//	    activated: [SPECULAR]
//	main: shaders/main.wgsl
//	activated: [FOG]
//	values:
//	  MAX_LIGHTS: 8
type manifestFile struct {
	Modules   []moduleEntry     `yaml:"modules"`
	Main      string            `yaml:"main"`
	Activated []string          `yaml:"activated"`
	Values    map[string]string `yaml:"values"`
}

type moduleEntry struct {
	Name      string            `yaml:"name"`
	Path      string            `yaml:"path"`
	Defs      []string          `yaml:"defs"`
	Activated []string          `yaml:"activated"`
	Values    map[string]string `yaml:"values"`
}

// composeManifest registers every module listed in the manifest and then
// composes its main source. Flag-supplied defines are added on top of the
// manifest's request defines.
func composeManifest(composer *oil.Composer, path string, defs defineFlags) (*oil.Artifact, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var m manifestFile
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	if m.Main == "" {
		return nil, fmt.Errorf("manifest %s: missing main source", path)
	}

	// Paths in the manifest resolve relative to the manifest file.
	base := filepath.Dir(path)

	for _, entry := range m.Modules {
		source, err := os.ReadFile(filepath.Join(base, entry.Path))
		if err != nil {
			return nil, fmt.Errorf("reading module %s: %w", entry.Name, err)
		}
		values, err := parseValueMap(entry.Values)
		if err != nil {
			return nil, fmt.Errorf("module %s: %w", entry.Name, err)
		}
		if _, err := composer.AddComposableModule(oil.ComposableModuleDescriptor{
			Name:      entry.Name,
			Source:    string(source),
			Defs:      entry.Defs,
			Activated: entry.Activated,
			DefValues: values,
		}); err != nil {
			return nil, err
		}
	}

	mainSource, err := os.ReadFile(filepath.Join(base, m.Main))
	if err != nil {
		return nil, fmt.Errorf("reading main source: %w", err)
	}
	values, err := parseValueMap(m.Values)
	if err != nil {
		return nil, err
	}
	for sym, val := range defs.values {
		values[sym] = val
	}

	return composer.Make(oil.ModuleDescriptor{
		Source:    string(mainSource),
		Activated: append(m.Activated, defs.activated...),
		DefValues: values,
	})
}

// defineFlags accumulates repeated -D flags: bare NAME activates a
// symbol, NAME=value supplies a typed value.
type defineFlags struct {
	activated []string
	values    map[string]oil.DefValue
}

func (d *defineFlags) String() string {
	return strings.Join(d.activated, ",")
}

func (d *defineFlags) Set(arg string) error {
	name, raw, hasValue := strings.Cut(arg, "=")
	if name == "" {
		return fmt.Errorf("empty shader def name")
	}
	if !hasValue {
		d.activated = append(d.activated, name)
		return nil
	}
	val, err := parseDefValue(raw)
	if err != nil {
		return fmt.Errorf("shader def %s: %w", name, err)
	}
	if d.values == nil {
		d.values = map[string]oil.DefValue{}
	}
	d.values[name] = val
	return nil
}

func parseValueMap(raw map[string]string) (map[string]oil.DefValue, error) {
	values := make(map[string]oil.DefValue, len(raw))
	for sym, s := range raw {
		val, err := parseDefValue(s)
		if err != nil {
			return nil, fmt.Errorf("shader def %s: %w", sym, err)
		}
		values[sym] = val
	}
	return values, nil
}

// parseDefValue reads a define value the way WGSL literals read: bools,
// signed ints, and u-suffixed unsigned ints.
func parseDefValue(raw string) (oil.DefValue, error) {
	switch raw {
	case "true":
		return oil.DefBool(true), nil
	case "false":
		return oil.DefBool(false), nil
	}
	if u, ok := strings.CutSuffix(raw, "u"); ok {
		v, err := strconv.ParseUint(u, 0, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid u32 value %q", raw)
		}
		return oil.DefUInt(uint32(v)), nil
	}
	v, err := strconv.ParseInt(raw, 0, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid value %q (expected true/false, i32, or u32 with u suffix)", raw)
	}
	return oil.DefInt(int32(v)), nil
}
