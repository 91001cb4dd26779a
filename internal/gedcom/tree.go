package gedcom

import (
	"fmt"
	"sort"
	"strings"
)

// NodeID addresses a node in a Tree's arena.
type NodeID int

// Root is the sentinel node every level-0 line hangs from.
const Root NodeID = 0

type node struct {
	line     Line
	parent   NodeID
	children []NodeID
}

// Tree is the level hierarchy of one GEDCOM file. Nodes live in a single
// slice and refer to each other by index; the sentinel root sits at index 0
// with level -1.
type Tree struct {
	nodes []node
	ids   map[string]NodeID

	prevLevel int
	prevNode  NodeID
}

// NewTree returns an empty tree holding only the root.
func NewTree() *Tree {
	return &Tree{
		nodes:     []node{{parent: -1}},
		ids:       make(map[string]NodeID),
		prevLevel: -1,
		prevNode:  Root,
	}
}

// Append adds line under its parent: the nearest preceding line one level
// up. Lines must be appended in document order. A line more than one level
// deeper than the previous line returns ErrInvalidLevel and leaves the tree
// unchanged.
func (t *Tree) Append(line Line) error {
	pops := t.prevLevel + 1 - line.Level()
	if pops < 0 {
		return &ParseError{Kind: ErrInvalidLevel, Text: line.String()}
	}

	parent := t.prevNode
	for i := 0; i < pops; i++ {
		parent = t.nodes[parent].parent
	}

	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, node{line: line, parent: parent})
	t.nodes[parent].children = append(t.nodes[parent].children, id)

	t.prevLevel = line.Level()
	t.prevNode = id

	if line.HasID() {
		if _, taken := t.ids[line.ID()]; !taken {
			t.ids[line.ID()] = id
		}
	}
	return nil
}

// Root returns the sentinel root.
func (t *Tree) Root() NodeID { return Root }

// Line returns the line stored at n. The root holds the zero Line.
func (t *Tree) Line(n NodeID) Line { return t.nodes[n].line }

// Children returns the children of n in document order. The slice must not
// be modified.
func (t *Tree) Children(n NodeID) []NodeID { return t.nodes[n].children }

// Parent returns the parent of n, or -1 for the root.
func (t *Tree) Parent(n NodeID) NodeID { return t.nodes[n].parent }

// Lookup finds the node registered under a cross-reference id. When an id
// occurs more than once in a file, the first occurrence wins.
func (t *Tree) Lookup(id string) (NodeID, bool) {
	n, ok := t.ids[id]
	return n, ok
}

// Len returns the number of lines attached to the tree, not counting the
// root or lines removed by concatenation.
func (t *Tree) Len() int {
	count := 0
	var walk func(NodeID)
	walk = func(n NodeID) {
		for _, c := range t.nodes[n].children {
			count++
			walk(c)
		}
	}
	walk(Root)
	return count
}

func (t *Tree) setLine(n NodeID, line Line) { t.nodes[n].line = line }

// Dump renders the tree and its id index for debugging and tests. The
// format is not stable.
func (t *Tree) Dump() string {
	var sb strings.Builder
	var walk func(n NodeID, depth int)
	walk = func(n NodeID, depth int) {
		for _, c := range t.nodes[n].children {
			sb.WriteString(strings.Repeat("    ", depth))
			t.nodes[c].line.dump(&sb)
			sb.WriteByte('\n')
			walk(c, depth+1)
		}
	}
	walk(Root, 0)

	sb.WriteString("--------map-of-IDs-to-Nodes--------\n")
	keys := make([]string, 0, len(t.ids))
	for k := range t.ids {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s --> %s\n", k, t.nodes[t.ids[k]].line)
	}
	return sb.String()
}
