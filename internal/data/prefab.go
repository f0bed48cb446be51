package data

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// ComponentSpec is one component line of a prefab. Which fields apply
// depends on the kind: asset for models and skybox textures, text for text
// planes, intensity for lights, behaviour for scripts.
type ComponentSpec struct {
	Kind      string   `yaml:"kind"`
	Asset     string   `yaml:"asset"`
	Text      string   `yaml:"text"`
	Intensity *float64 `yaml:"intensity"`
	Behaviour string   `yaml:"behaviour"`
	Draggable *bool    `yaml:"draggable"` // nil = leave the default (draggable)
}

// Prefab is a data-defined entity kind.
type Prefab struct {
	Name       string          `yaml:"name"`
	Position   [3]float64      `yaml:"position"`
	Scale      float64         `yaml:"scale"` // uniform; 0 means 1
	Components []ComponentSpec `yaml:"components"`
	Children   []string        `yaml:"children"` // prefab names spawned under this one
}

type prefabListFile struct {
	Prefabs []Prefab `yaml:"prefabs"`
}

// PrefabTable holds all prefabs indexed by name.
type PrefabTable struct {
	prefabs map[string]*Prefab
}

// LoadPrefabTable loads a prefab catalog YAML file.
func LoadPrefabTable(path string) (*PrefabTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prefab catalog: %w", err)
	}
	t, err := ParsePrefabTable(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// ParsePrefabTable decodes and validates a catalog. Names must be unique and
// every child must name a prefab of the same catalog.
func ParsePrefabTable(raw []byte) (*PrefabTable, error) {
	var f prefabListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse prefab catalog: %w", err)
	}
	return NewPrefabTable(f.Prefabs)
}

func NewPrefabTable(prefabs []Prefab) (*PrefabTable, error) {
	t := &PrefabTable{
		prefabs: make(map[string]*Prefab, len(prefabs)),
	}
	for i := range prefabs {
		p := &prefabs[i]
		if p.Name == "" {
			return nil, fmt.Errorf("prefab #%d has no name", i)
		}
		if _, dup := t.prefabs[p.Name]; dup {
			return nil, fmt.Errorf("duplicate prefab %q", p.Name)
		}
		for j, c := range p.Components {
			if c.Kind == "" {
				return nil, fmt.Errorf("prefab %q component #%d has no kind", p.Name, j)
			}
		}
		if p.Scale == 0 {
			p.Scale = 1
		}
		t.prefabs[p.Name] = p
	}
	for _, p := range t.prefabs {
		for _, child := range p.Children {
			if _, ok := t.prefabs[child]; !ok {
				return nil, fmt.Errorf("prefab %q: unknown child %q", p.Name, child)
			}
		}
	}
	return t, nil
}

// Get returns the prefab with the given name, or nil if none.
func (t *PrefabTable) Get(name string) *Prefab {
	return t.prefabs[name]
}

// Count returns the total number of prefabs loaded.
func (t *PrefabTable) Count() int {
	return len(t.prefabs)
}

// Names returns all prefab names, sorted.
func (t *PrefabTable) Names() []string {
	out := make([]string, 0, len(t.prefabs))
	for n := range t.prefabs {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
