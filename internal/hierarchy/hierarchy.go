package hierarchy

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dominikbraun/graph"

	"github.com/mickleon/typdoc/internal/extraction"
)

const accessAttribute = "access"

// Class is a vertex of the inheritance graph.
type Class struct {
	Name     string
	Unit     string // header the class was found in, empty for external bases
	External bool   // base referenced but not declared in any input
}

// SkippedEdge is an inheritance link left out of the graph.
type SkippedEdge struct {
	Base    string
	Derived string
	Err     error
}

// Graph is the base → derived inheritance graph across all source units.
type Graph struct {
	g       graph.Graph[string, Class]
	order   map[string]int // first-seen position of every vertex
	names   []string
	skipped []SkippedEdge
}

// Build creates the inheritance graph of every declaration in units. Classes
// declared more than once keep their first declaration. Links that would
// close a cycle are skipped and reported by Skipped.
func Build(units []*extraction.SourceUnit) (*Graph, error) {
	h := &Graph{
		g:     graph.New(func(c Class) string { return c.Name }, graph.Directed(), graph.PreventCycles()),
		order: make(map[string]int),
	}

	for _, unit := range units {
		for _, decl := range unit.Declarations {
			if err := h.addVertex(Class{Name: decl.Name, Unit: unit.Name}); err != nil {
				return nil, err
			}
		}
	}

	for _, unit := range units {
		for _, decl := range unit.Declarations {
			for _, parent := range decl.Parents {
				if err := h.addVertex(Class{Name: parent.Name, External: true}); err != nil {
					return nil, err
				}
				if err := h.addEdge(parent, decl.Name); err != nil {
					return nil, err
				}
			}
		}
	}

	return h, nil
}

func (h *Graph) addVertex(c Class) error {
	if _, ok := h.order[c.Name]; ok {
		return nil
	}
	if err := h.g.AddVertex(c); err != nil {
		return fmt.Errorf("failed to add class %s: %w", c.Name, err)
	}
	h.order[c.Name] = len(h.names)
	h.names = append(h.names, c.Name)
	return nil
}

func (h *Graph) addEdge(parent extraction.ParentRef, derived string) error {
	err := h.g.AddEdge(parent.Name, derived, graph.EdgeAttribute(accessAttribute, string(parent.Access)))
	switch {
	case err == nil, errors.Is(err, graph.ErrEdgeAlreadyExists):
		return nil
	case errors.Is(err, graph.ErrEdgeCreatesCycle):
		h.skipped = append(h.skipped, SkippedEdge{Base: parent.Name, Derived: derived, Err: err})
		return nil
	default:
		return fmt.Errorf("failed to link %s to %s: %w", parent.Name, derived, err)
	}
}

// Size returns the number of classes in the graph.
func (h *Graph) Size() int {
	return len(h.names)
}

// Skipped returns the inheritance links that were not added.
func (h *Graph) Skipped() []SkippedEdge {
	return h.skipped
}

// Class returns the vertex with the given name.
func (h *Graph) Class(name string) (Class, bool) {
	c, err := h.g.Vertex(name)
	if err != nil {
		return Class{}, false
	}
	return c, true
}

// Roots returns the classes without bases, in first-seen order.
func (h *Graph) Roots() ([]string, error) {
	predecessors, err := h.g.PredecessorMap()
	if err != nil {
		return nil, err
	}

	var roots []string
	for _, name := range h.names {
		if len(predecessors[name]) == 0 {
			roots = append(roots, name)
		}
	}
	return roots, nil
}

// Child is a derived class together with the inheritance access.
type Child struct {
	Name   string
	Access extraction.Access
}

// Children returns the classes directly derived from name, in first-seen order.
func (h *Graph) Children(name string) ([]Child, error) {
	adjacency, err := h.g.AdjacencyMap()
	if err != nil {
		return nil, err
	}

	edges := adjacency[name]
	children := make([]Child, 0, len(edges))
	for target, edge := range edges {
		children = append(children, Child{
			Name:   target,
			Access: extraction.Access(edge.Properties.Attributes[accessAttribute]),
		})
	}
	sort.Slice(children, func(i, j int) bool {
		return h.order[children[i].Name] < h.order[children[j].Name]
	})
	return children, nil
}

// Render writes the hierarchy as a Typst document: a heading followed by a
// nested list per root class.
func (h *Graph) Render(title string) (string, error) {
	roots, err := h.Roots()
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("= %s\n\n", title))
	for _, root := range roots {
		line := fmt.Sprintf("- `%s`", root)
		if c, ok := h.Class(root); ok && c.External {
			line += " (external)"
		}
		sb.WriteString(line + "\n")
		if err := h.renderChildren(&sb, root, 1); err != nil {
			return "", err
		}
	}
	return sb.String(), nil
}

func (h *Graph) renderChildren(sb *strings.Builder, name string, depth int) error {
	children, err := h.Children(name)
	if err != nil {
		return err
	}

	indent := strings.Repeat("  ", depth)
	for _, child := range children {
		sb.WriteString(fmt.Sprintf("%s- `%s` (%s)\n", indent, child.Name, child.Access))
		if err := h.renderChildren(sb, child.Name, depth+1); err != nil {
			return err
		}
	}
	return nil
}
