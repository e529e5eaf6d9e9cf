package vocab

import (
	"errors"
	"testing"
)

func TestBuildCategoryTree(t *testing.T) {
	categories := []Category{
		{ID: "1", Name: "Food"},
		{ID: "2", Name: "Fruit", ParentID: "1"},
		{ID: "3", Name: "Travel"},
		{ID: "4", Name: "Citrus", ParentID: "2"},
		{ID: "5", Name: "Orphan", ParentID: "missing"},
	}

	roots, err := BuildCategoryTree(categories)
	if err != nil {
		t.Fatalf("BuildCategoryTree() error = %v", err)
	}

	if len(roots) != 3 {
		t.Fatalf("Expected 3 roots, got %d", len(roots))
	}

	wantRoots := []string{"Food", "Travel", "Orphan"}
	for i, want := range wantRoots {
		if roots[i].Name != want {
			t.Errorf("root[%d] = %s, want %s", i, roots[i].Name, want)
		}
	}

	var visited []string
	var depths []int
	roots[0].Walk(func(n *CategoryNode, depth int) {
		visited = append(visited, n.Name)
		depths = append(depths, depth)
	})

	wantVisited := []string{"Food", "Fruit", "Citrus"}
	if len(visited) != len(wantVisited) {
		t.Fatalf("Walk visited %v, want %v", visited, wantVisited)
	}
	for i := range wantVisited {
		if visited[i] != wantVisited[i] || depths[i] != i {
			t.Errorf("Walk step %d = %s@%d, want %s@%d", i, visited[i], depths[i], wantVisited[i], i)
		}
	}
}

func TestBuildCategoryTreeCycle(t *testing.T) {
	tests := []struct {
		name       string
		categories []Category
	}{
		{
			name:       "self parent",
			categories: []Category{{ID: "a", ParentID: "a"}},
		},
		{
			name: "two node loop",
			categories: []Category{
				{ID: "a", ParentID: "b"},
				{ID: "b", ParentID: "a"},
			},
		},
		{
			name: "loop below a root",
			categories: []Category{
				{ID: "root"},
				{ID: "x", ParentID: "z"},
				{ID: "y", ParentID: "x"},
				{ID: "z", ParentID: "y"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildCategoryTree(tt.categories)
			if !errors.Is(err, ErrCyclicCategoryGraph) {
				t.Errorf("BuildCategoryTree() error = %v, want ErrCyclicCategoryGraph", err)
			}
		})
	}
}

func TestCategoryIndex(t *testing.T) {
	idx := NewCategoryIndex([]Category{
		{ID: "c1", Name: "Animals"},
		{ID: "c2", Name: "Food"},
	})

	if got := idx.Name("c1"); got != "Animals" {
		t.Errorf("Name(c1) = %s, want Animals", got)
	}
	if got := idx.Name("unknown"); got != "unknown" {
		t.Errorf("Name(unknown) = %s, want unknown", got)
	}

	ids, err := idx.Resolve([]string{"food", "c1"})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(ids) != 2 || ids[0] != "c2" || ids[1] != "c1" {
		t.Errorf("Resolve() = %v, want [c2 c1]", ids)
	}

	if _, err := idx.Resolve([]string{"Sports"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Resolve(Sports) error = %v, want ErrNotFound", err)
	}
}
