// Package presets bundles the animation manifests and page layouts of the
// Queen's Crown site sections. Each preset is one YAML file holding a
// scrollfx manifest plus a layout tree the manifest's targets resolve against.
package presets

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/phanxgames/scrollfx"
)

//go:embed *.yaml
var files embed.FS

// Preset is a parsed manifest and a freshly built element tree for it.
type Preset struct {
	Manifest *scrollfx.Manifest
	Root     *scrollfx.Element
}

// Setup returns the mount function registering the preset's effects on Root.
func (p *Preset) Setup() func(*scrollfx.Context) {
	return p.Manifest.Setup(scrollfx.LookupTree(p.Root))
}

// Height returns the document height of the layout.
func (p *Preset) Height() float64 {
	return p.Root.Top + p.Root.Height
}

// Node is one element of a preset layout. Box is [x, y, width, height] in
// document coordinates; Color is "#rrggbb" or "#rrggbbaa".
type Node struct {
	Name     string    `yaml:"name"`
	Box      []float64 `yaml:"box"`
	Color    string    `yaml:"color,omitempty"`
	Children []Node    `yaml:"children,omitempty"`
}

type document struct {
	Layout *Node `yaml:"layout"`
}

// Names returns the embedded preset names in sorted order.
func Names() []string {
	entries, _ := fs.ReadDir(files, ".")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), ".yaml"); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Load parses the named preset and builds a new element tree for it. Every
// call returns independent elements, so a preset can be mounted on several
// runtimes at once.
func Load(name string) (*Preset, error) {
	data, err := files.ReadFile(path.Clean(name) + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("preset %q: %w", name, fs.ErrNotExist)
	}
	m, err := scrollfx.ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("preset %q: %w", name, err)
	}
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("preset %q: %w", name, err)
	}
	if doc.Layout == nil {
		return nil, fmt.Errorf("preset %q: no layout", name)
	}
	root, err := doc.Layout.build()
	if err != nil {
		return nil, fmt.Errorf("preset %q: %w", name, err)
	}
	return &Preset{Manifest: m, Root: root}, nil
}

// MustLoad is like Load but panics on error.
func MustLoad(name string) *Preset {
	p, err := Load(name)
	if err != nil {
		panic(err)
	}
	return p
}

func (n *Node) build() (*scrollfx.Element, error) {
	if n.Name == "" {
		return nil, fmt.Errorf("layout node without name")
	}
	if len(n.Box) != 4 {
		return nil, fmt.Errorf("layout %q: box wants [x, y, width, height]", n.Name)
	}
	e := scrollfx.NewElement(n.Name, scrollfx.Rect{X: n.Box[0], Y: n.Box[1], Width: n.Box[2], Height: n.Box[3]})
	if n.Color != "" {
		c, err := ParseColor(n.Color)
		if err != nil {
			return nil, fmt.Errorf("layout %q: %w", n.Name, err)
		}
		e.Color = c
	}
	for i := range n.Children {
		child, err := n.Children[i].build()
		if err != nil {
			return nil, err
		}
		e.AddChild(child)
	}
	return e, nil
}

// ParseColor parses "#rrggbb" or "#rrggbbaa".
func ParseColor(s string) (scrollfx.Color, error) {
	hex, ok := strings.CutPrefix(s, "#")
	if !ok || (len(hex) != 6 && len(hex) != 8) {
		return scrollfx.Color{}, fmt.Errorf("bad color %q", s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return scrollfx.Color{}, fmt.Errorf("bad color %q", s)
	}
	return scrollfx.Color{
		R: float64(v>>24&0xff) / 255,
		G: float64(v>>16&0xff) / 255,
		B: float64(v>>8&0xff) / 255,
		A: float64(v&0xff) / 255,
	}, nil
}
