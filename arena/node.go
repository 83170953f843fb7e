// Package arena holds the flowers an agent forages from: the nectar state
// machine per flower, the container that owns them, and the node tree that
// describes where they sit.
package arena

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// NodeKind classifies a node in an arena description.
type NodeKind uint8

const (
	NodeGroup  NodeKind = iota // Pass-through container
	NodePlant                  // Rotated as a unit at every reset
	NodeFlower                 // Owns a nectar region
)

// String returns the layout-file name for a NodeKind.
func (k NodeKind) String() string {
	switch k {
	case NodePlant:
		return "plant"
	case NodeFlower:
		return "flower"
	default:
		return "group"
	}
}

// UnmarshalYAML reads a NodeKind from its name.
func (k *NodeKind) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}
	switch name {
	case "", "group":
		*k = NodeGroup
	case "plant":
		*k = NodePlant
	case "flower":
		*k = NodeFlower
	default:
		return fmt.Errorf("line %d: unknown node kind %q", value.Line, name)
	}
	return nil
}

// MarshalYAML writes a NodeKind by name.
func (k NodeKind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}

// Node is one element of an arena description. Position and Rotation are
// local to the parent; Rotation is (pitch, yaw, roll) in degrees.
type Node struct {
	Name     string      `yaml:"name"`
	Kind     NodeKind    `yaml:"kind"`
	Position [3]float64  `yaml:"position"`
	Rotation [3]float64  `yaml:"rotation"`
	Flower   *FlowerSpec `yaml:"flower,omitempty"`
	Children []*Node     `yaml:"children,omitempty"`
}

// FlowerSpec carries the flower-only fields of a NodeFlower.
type FlowerSpec struct {
	Region       RegionID   `yaml:"region"`        // Defaults to "<path>/nectar"
	NectarOffset [3]float64 `yaml:"nectar_offset"` // Local offset of the nectar region
	NectarRadius float64    `yaml:"nectar_radius"`
	PetalRadius  float64    `yaml:"petal_radius"`
	FullColor    [4]uint8   `yaml:"full_color"`
	EmptyColor   [4]uint8   `yaml:"empty_color"`
}

// Visit is called for each node in depth-first order. Returning false skips
// the node's children.
type Visit func(n *Node, path string) bool

// Walk traverses the tree rooted at n depth-first, children in order.
func Walk(n *Node, fn Visit) {
	walk(n, n.Name, fn)
}

func walk(n *Node, path string, fn Visit) {
	if !fn(n, path) {
		return
	}
	for i, child := range n.Children {
		name := child.Name
		if name == "" {
			name = fmt.Sprintf("%d", i)
		}
		walk(child, path+"/"+name, fn)
	}
}

// LoadLayout reads an arena description from a YAML file.
func LoadLayout(path string) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading layout: %w", err)
	}
	return ParseLayout(data)
}

// ParseLayout decodes an arena description.
func ParseLayout(data []byte) (*Node, error) {
	root := &Node{}
	if err := yaml.Unmarshal(data, root); err != nil {
		return nil, fmt.Errorf("parsing layout: %w", err)
	}
	var bad error
	Walk(root, func(n *Node, path string) bool {
		if n.Kind == NodeFlower && n.Flower == nil {
			n.Flower = &FlowerSpec{}
		}
		if n.Kind != NodeFlower && n.Flower != nil && bad == nil {
			bad = fmt.Errorf("layout node %s: flower fields on a %s node", path, n.Kind)
		}
		return true
	})
	if bad != nil {
		return nil, bad
	}
	return root, nil
}

// WriteLayout writes an arena description as YAML.
func WriteLayout(path string, root *Node) error {
	data, err := yaml.Marshal(root)
	if err != nil {
		return fmt.Errorf("marshaling layout: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing layout: %w", err)
	}
	return nil
}
