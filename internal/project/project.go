package project

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/quickgo-release/internal/model"
)

const (
	// YAMLFileName is the primary project file name.
	YAMLFileName = "quickgo.yaml"

	// JSONFileName is the alternative JSONC project file name.
	JSONFileName = "quickgo.json"

	// VersionMappingKey is the context property holding file → pattern pairs.
	VersionMappingKey = "versionMapping"
)

// ErrNotFound is returned by Find when the directory holds no project file.
var ErrNotFound = errors.New("project config not found")

// Find looks for a project file in dir and loads it.
// It returns ErrNotFound when neither quickgo.yaml nor quickgo.json exists.
func Find(dir string) (*model.ProjectMetadata, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project directory %s: %w", dir, err)
	}

	for _, name := range []string{YAMLFileName, JSONFileName} {
		path := filepath.Join(absDir, name)
		if _, statErr := os.Stat(path); statErr == nil {
			return Load(path)
		} else if !errors.Is(statErr, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat %s: %w", path, statErr)
		}
	}
	return nil, fmt.Errorf("%w in %s", ErrNotFound, absDir)
}

// Load parses the project file at path. The format is chosen by extension:
// .json is parsed as JSONC, anything else as YAML. Relative paths in the
// version mapping are resolved against the file's directory.
func Load(path string) (*model.ProjectMetadata, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read project config %s: %w", absPath, err)
	}

	var p *model.ProjectMetadata
	if filepath.Ext(absPath) == ".json" {
		p, err = parseJSON(data)
	} else {
		p, err = parseYAML(data)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid project config %s: %w", absPath, err)
	}

	p.ConfigFile = absPath
	p.Dir = filepath.Dir(absPath)
	for i, e := range p.VersionMapping.Entries {
		if !filepath.IsAbs(e.File) {
			p.VersionMapping.Entries[i].File = filepath.Join(p.Dir, filepath.FromSlash(e.File))
		}
	}
	return p, nil
}

// yamlProject mirrors the parts of quickgo.yaml this package reads.
// Context stays a raw node so versionMapping can be walked in order.
type yamlProject struct {
	Name    string    `yaml:"name"`
	Context yaml.Node `yaml:"context"`
}

func parseYAML(data []byte) (*model.ProjectMetadata, error) {
	var raw yamlProject
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	p := &model.ProjectMetadata{Name: raw.Name}
	if raw.Context.Kind == 0 || (raw.Context.Kind == yaml.ScalarNode && raw.Context.Tag == "!!null") {
		return p, nil
	}
	if raw.Context.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("context must be a mapping")
	}

	if err := raw.Context.Decode(&p.Context); err != nil {
		return nil, fmt.Errorf("context: %w", err)
	}

	// Mapping node content alternates key, value, key, value...
	for i := 0; i+1 < len(raw.Context.Content); i += 2 {
		if raw.Context.Content[i].Value != VersionMappingKey {
			continue
		}
		mapping, err := yamlMapping(raw.Context.Content[i+1])
		if err != nil {
			return nil, err
		}
		p.VersionMapping = mapping
	}
	return p, nil
}

func yamlMapping(node *yaml.Node) (model.VersionMapping, error) {
	var m model.VersionMapping
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return m, nil
	}
	if node.Kind != yaml.MappingNode {
		return m, fmt.Errorf("context.%s must be a mapping of file paths to patterns (line %d)", VersionMappingKey, node.Line)
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if value.Kind != yaml.ScalarNode {
			return m, fmt.Errorf("context.%s[%q] must be a pattern string (line %d)", VersionMappingKey, key.Value, value.Line)
		}
		m.Add(key.Value, value.Value)
	}
	return m, nil
}

// jsonProject mirrors the parts of quickgo.json this package reads.
type jsonProject struct {
	Name    string                     `json:"name"`
	Context map[string]json.RawMessage `json:"context"`
}

func parseJSON(data []byte) (*model.ProjectMetadata, error) {
	clean := jsonc.ToJSON(data)

	var raw jsonProject
	if err := json.Unmarshal(clean, &raw); err != nil {
		return nil, err
	}

	p := &model.ProjectMetadata{Name: raw.Name}
	if raw.Context != nil {
		p.Context = make(map[string]any, len(raw.Context))
		for k, v := range raw.Context {
			var decoded any
			if err := json.Unmarshal(v, &decoded); err != nil {
				return nil, fmt.Errorf("context.%s: %w", k, err)
			}
			p.Context[k] = decoded
		}
	}

	if rawMapping, ok := raw.Context[VersionMappingKey]; ok {
		mapping, err := jsonMapping(rawMapping)
		if err != nil {
			return nil, err
		}
		p.VersionMapping = mapping
	}
	return p, nil
}

// jsonMapping decodes a JSON object token by token so that key order is kept.
func jsonMapping(data json.RawMessage) (model.VersionMapping, error) {
	var m model.VersionMapping
	if string(bytes.TrimSpace(data)) == "null" {
		return m, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return m, fmt.Errorf("context.%s: %w", VersionMappingKey, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return m, fmt.Errorf("context.%s must be an object of file paths to patterns", VersionMappingKey)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return m, fmt.Errorf("context.%s: %w", VersionMappingKey, err)
		}
		key, _ := keyTok.(string)

		var pattern string
		if err := dec.Decode(&pattern); err != nil {
			return m, fmt.Errorf("context.%s[%q] must be a pattern string: %w", VersionMappingKey, key, err)
		}
		m.Add(key, pattern)
	}

	if _, err := dec.Token(); err != nil && !errors.Is(err, io.EOF) {
		return m, fmt.Errorf("context.%s: %w", VersionMappingKey, err)
	}
	return m, nil
}
