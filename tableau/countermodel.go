package tableau

import (
	"treeproof/formula"
	"treeproof/model"
)

// GetCounterModel reads a canonical model off the first open branch:
// ground terms become integers in order of first appearance, positive
// atoms populate the predicate extensions, and every branch formula is
// then validated by ExtendToSatisfy. Returns nil when there is no open
// branch or when an extension step fails.
func (st *SentenceTree) GetCounterModel() *model.Model {
	if len(st.FV.OpenBranches) == 0 {
		return nil
	}
	br := st.FV.OpenBranches[0]
	var leaf *Node
	for _, n := range br.Nodes {
		if n.IsSenNode && !n.IsRemoved {
			leaf = n
		}
	}
	if leaf == nil {
		return nil
	}
	for len(leaf.Children) == 1 {
		leaf = leaf.Children[0]
	}
	var fs []formula.Formula
	for n := leaf; n != nil; n = n.Parent {
		fs = append([]formula.Formula{n.Formula}, fs...)
	}
	m := model.New(st.Parser, 0, 0)
	for _, f := range fs {
		m.Absorb(f)
	}
	m.EnsureNonEmpty()
	for _, f := range fs {
		if !m.ExtendToSatisfy(f) {
			return nil
		}
	}
	return m
}
