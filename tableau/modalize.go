package tableau

import (
	"treeproof/formula"
	"treeproof/modal"
)

// Modalize re-expresses every node's formula in modal notation with world
// labels for display. A node whose formula keeps an accessibility atom
// even after translation is an intermediate of a modal expansion; it is
// hidden, with its dependents restitched onto the original modal premise.
// A node whose removal the tree refuses stays visible.
func (st *SentenceTree) Modalize() {
	for _, n := range append([]*Node{}, st.Nodes...) {
		t := modal.TranslateToModal(n.Formula, st.Parser)
		if !containsAccessibility(t, st.Parser.R) {
			n.Formula = t
			continue
		}
		premise := n
		if len(n.FromNodes) > 0 {
			premise = n.FromNodes[0]
		}
		for _, m := range st.Nodes {
			if m == n {
				continue
			}
			for i, from := range m.FromNodes {
				if from == n {
					rewired := append([]*Node{}, m.FromNodes...)
					rewired[i] = premise
					m.FromNodes = rewired
				}
			}
		}
		if !st.remove(n) {
			n.Formula = t
		}
	}
}

func containsAccessibility(f formula.Formula, r string) bool {
	switch g := f.(type) {
	case *formula.Atom:
		return g.Pred == r
	case *formula.Not:
		return containsAccessibility(g.Sub, r)
	case *formula.Binary:
		return containsAccessibility(g.Sub1, r) || containsAccessibility(g.Sub2, r)
	case *formula.Quant:
		return containsAccessibility(g.Matrix, r)
	case *formula.Modal:
		return containsAccessibility(g.Sub, r)
	}
	return false
}
