package gedcom

// Concatenate folds CONT and CONC lines into their parent's value and
// removes them from the tree. CONT joins with a newline, CONC joins
// directly. Nothing else about the tree changes.
func Concatenate(t *Tree) {
	concatenate(t, Root)
}

func concatenate(t *Tree, parent NodeID) {
	children := t.nodes[parent].children
	var removed map[NodeID]bool

	for _, child := range children {
		concatenate(t, child)

		line := t.nodes[child].line
		switch line.Tag() {
		case TagCONT:
			t.setLine(parent, t.nodes[parent].line.cont(line.Value()))
		case TagCONC:
			t.setLine(parent, t.nodes[parent].line.conc(line.Value()))
		default:
			continue
		}
		if removed == nil {
			removed = make(map[NodeID]bool)
		}
		removed[child] = true
	}

	if removed == nil {
		return
	}
	kept := children[:0]
	for _, child := range children {
		if !removed[child] {
			kept = append(kept, child)
		}
	}
	t.nodes[parent].children = kept
}
