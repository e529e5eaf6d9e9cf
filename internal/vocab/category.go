package vocab

import (
	"fmt"
	"strings"
)

// Category is a user-defined grouping of entries. Categories may form a
// tree through ParentID; an empty ParentID marks a root.
type Category struct {
	ID          string
	Name        string
	Description string
	Color       string
	Icon        string
	ParentID    string
	WordCount   int
}

// Topic is a flat classification tag for entries.
type Topic struct {
	ID          string
	Name        string
	Description string
	Color       string
	Icon        string
	WordCount   int
}

// CategoryNode is a category with its resolved children.
type CategoryNode struct {
	Category
	Children []*CategoryNode
}

// BuildCategoryTree arranges categories into a forest following ParentID.
// Categories whose parent is unknown become roots. Sibling order follows
// the input order. A parent chain that loops back on itself fails with
// ErrCyclicCategoryGraph.
func BuildCategoryTree(categories []Category) ([]*CategoryNode, error) {
	byID := make(map[string]*CategoryNode, len(categories))
	for _, c := range categories {
		if _, dup := byID[c.ID]; dup {
			return nil, fmt.Errorf("duplicate category id %q", c.ID)
		}
		byID[c.ID] = &CategoryNode{Category: c}
	}

	for _, c := range categories {
		visited := map[string]bool{c.ID: true}
		for parent := c.ParentID; parent != ""; {
			if visited[parent] {
				return nil, fmt.Errorf("%w: %q reaches itself via %q", ErrCyclicCategoryGraph, c.ID, parent)
			}
			visited[parent] = true
			node, ok := byID[parent]
			if !ok {
				break
			}
			parent = node.ParentID
		}
	}

	var roots []*CategoryNode
	for _, c := range categories {
		node := byID[c.ID]
		parent, ok := byID[c.ParentID]
		if c.ParentID == "" || !ok {
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}
	return roots, nil
}

// Walk visits the node and its descendants depth-first.
func (n *CategoryNode) Walk(fn func(node *CategoryNode, depth int)) {
	n.walk(fn, 0)
}

func (n *CategoryNode) walk(fn func(*CategoryNode, int), depth int) {
	fn(n, depth)
	for _, child := range n.Children {
		child.walk(fn, depth+1)
	}
}

// CategoryIndex resolves category ids to display names and back.
type CategoryIndex struct {
	byID   map[string]Category
	byName map[string]string
}

// NewCategoryIndex indexes the given categories. Name lookups are
// case-insensitive; on duplicate names the first category wins.
func NewCategoryIndex(categories []Category) *CategoryIndex {
	idx := &CategoryIndex{
		byID:   make(map[string]Category, len(categories)),
		byName: make(map[string]string, len(categories)),
	}
	for _, c := range categories {
		idx.byID[c.ID] = c
		key := strings.ToLower(strings.TrimSpace(c.Name))
		if _, ok := idx.byName[key]; !ok {
			idx.byName[key] = c.ID
		}
	}
	return idx
}

// Name returns the display name for a category id, or the id itself when
// the category is unknown.
func (idx *CategoryIndex) Name(id string) string {
	if c, ok := idx.byID[id]; ok {
		return c.Name
	}
	return id
}

// Lookup returns the category with the given id.
func (idx *CategoryIndex) Lookup(id string) (Category, bool) {
	c, ok := idx.byID[id]
	return c, ok
}

// IDByName resolves a display name to a category id.
func (idx *CategoryIndex) IDByName(name string) (string, bool) {
	id, ok := idx.byName[strings.ToLower(strings.TrimSpace(name))]
	return id, ok
}

// Resolve maps each reference (an id or a display name) to a category id.
// Unknown references fail with ErrNotFound.
func (idx *CategoryIndex) Resolve(refs []string) ([]string, error) {
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		if _, ok := idx.byID[ref]; ok {
			ids = append(ids, ref)
			continue
		}
		id, ok := idx.IDByName(ref)
		if !ok {
			return nil, fmt.Errorf("category %q: %w", ref, ErrNotFound)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
