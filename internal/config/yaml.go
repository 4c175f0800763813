package config

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ParseYAML reads a YAML mapping using the same keys as Parse. A passes
// sequence is accepted in place of indexed keys:
//
//	passes:
//	  - {vert: main.vert, frag: main.frag}
//	  - {vert: main.vert, frag: blur.frag}
//
// Only malformed YAML is an error; everything else becomes a Warning carrying
// the node's line and column.
func ParseYAML(file string, data []byte) (Config, []Warning, error) {
	cfg := Default()

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Config{}, nil, fmt.Errorf("parse %s: %w", file, err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return cfg, nil, nil
	}

	p := yamlParser{file: file, cfg: &cfg}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		p.warn(root, "expected a mapping at the top level")
		return cfg, p.warns, nil
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		if key.Value == "passes" {
			p.passes(value)
			continue
		}
		p.scalar(key.Value, key, value)
	}
	return cfg, p.warns, nil
}

type yamlParser struct {
	file  string
	cfg   *Config
	warns []Warning
}

func (p *yamlParser) warn(n *yaml.Node, format string, args ...any) {
	p.warns = append(p.warns, Warning{
		File:   p.file,
		Line:   n.Line,
		Column: n.Column,
		Msg:    fmt.Sprintf(format, args...),
	})
}

func (p *yamlParser) scalar(key string, keyNode, value *yaml.Node) {
	if value.Kind != yaml.ScalarNode {
		p.warn(value, "%s: expected a scalar value", key)
		return
	}
	if msg := apply(p.cfg, key, value.Value); msg != "" {
		p.warn(keyNode, "%s", msg)
	}
}

func (p *yamlParser) passes(seq *yaml.Node) {
	if seq.Kind != yaml.SequenceNode {
		p.warn(seq, "passes: expected a sequence")
		return
	}
	if len(seq.Content) > MaxPasses {
		p.warn(seq.Content[MaxPasses], "passes: at most %d passes, extra ignored", MaxPasses)
	}
	for i, item := range seq.Content {
		if i >= MaxPasses {
			break
		}
		if item.Kind != yaml.MappingNode {
			p.warn(item, "passes[%d]: expected a mapping", i)
			continue
		}
		for j := 0; j+1 < len(item.Content); j += 2 {
			key, value := item.Content[j], item.Content[j+1]
			switch key.Value {
			case "vert", "frag":
				p.scalar(key.Value+"["+strconv.Itoa(i)+"]", key, value)
			default:
				p.warn(key, "passes[%d]: unknown key %q", i, key.Value)
			}
		}
	}
}
