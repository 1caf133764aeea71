package tableau

import (
	"fmt"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"treeproof/formula"
	"treeproof/parser"
)

// SentenceTree owns the node graph of the presented proof: a root, a flat
// node list in adoption order, and the bookkeeping needed to rebuild the
// unnormalized tableau from the free-variable tree. Construction mutates
// the fvTree's node objects, so only one SentenceTree may be built from a
// given FVTree at a time.
type SentenceTree struct {
	Root  *Node
	Nodes []*Node

	InitFormulas           []formula.Formula
	InitFormulasNonModal   []formula.Formula
	InitFormulasNormalized []formula.Formula

	FV     *FVTree
	Parser *parser.Parser

	// surfaceNames are the constants issued by the naming pass.
	surfaceNames mapset.Set[string]

	nextStep int
}

// NewSentenceTree rebuilds the sentence tableau from fv: transfers every
// branch through the denormalizer, prunes unused rule applications when the
// tree is closed, then replaces free variables and Skolem terms by surface
// constants.
func NewSentenceTree(fv *FVTree) *SentenceTree {
	st := &SentenceTree{
		InitFormulas:           append([]formula.Formula{}, fv.InitFormulas...),
		InitFormulasNonModal:   append([]formula.Formula{}, fv.InitFormulasNonModal...),
		InitFormulasNormalized: append([]formula.Formula{}, fv.InitFormulasNormalized...),
		FV:                     fv,
		Parser:                 fv.Parser,
		surfaceNames:           mapset.NewSet[string](),
	}
	for _, br := range append(append([]*Branch{}, fv.ClosedBranches...), fv.OpenBranches...) {
		for _, n := range br.Nodes {
			if n.ExpansionStep >= st.nextStep {
				st.nextStep = n.ExpansionStep + 1
			}
		}
	}
	st.initNodes()
	for _, br := range fv.ClosedBranches {
		st.transferBranch(br)
	}
	for _, br := range fv.OpenBranches {
		st.transferBranch(br)
	}
	if fv.Closed() {
		st.pruneUnused()
	}
	st.nameVariables()
	return st
}

// makeNode adopts n into the sentence tree, clearing any previous shape.
func (st *SentenceTree) makeNode(n *Node) {
	n.IsSenNode = true
	n.Parent = nil
	n.Children = nil
}

// appendChild links child below parent and adds it to the flat list. A
// closedEnd flag on the parent moves down to the child.
func (st *SentenceTree) appendChild(parent, child *Node) {
	child.Parent = parent
	if parent != nil {
		parent.Children = append(parent.Children, child)
		if parent.ClosedEnd {
			parent.ClosedEnd = false
			child.ClosedEnd = true
		}
	} else {
		st.Root = child
	}
	st.Nodes = append(st.Nodes, child)
}

// reverse swaps a with its only child b so that b becomes the parent of a.
// Used to fix alpha results transferred in the wrong order.
func (st *SentenceTree) reverse(a, b *Node) {
	if len(a.Children) != 1 || a.Children[0] != b {
		return
	}
	p := a.Parent
	b.Parent = p
	if p == nil {
		st.Root = b
	} else {
		for i, c := range p.Children {
			if c == a {
				p.Children[i] = b
			}
		}
	}
	a.Children = b.Children
	for _, c := range a.Children {
		c.Parent = a
	}
	b.Children = []*Node{a}
	a.Parent = b
	a.ClosedEnd, b.ClosedEnd = b.ClosedEnd, a.ClosedEnd
	a.SwappedWith, b.SwappedWith = b, a
	ia, ib := st.index(a), st.index(b)
	if ia >= 0 && ib >= 0 {
		st.Nodes[ia], st.Nodes[ib] = st.Nodes[ib], st.Nodes[ia]
	}
}

func (st *SentenceTree) index(n *Node) int {
	for i, m := range st.Nodes {
		if m == n {
			return i
		}
	}
	return -1
}

// remove splices n out of the tree. It refuses — returning false — when n
// has two children while its parent has another child, since the shape
// could not absorb both subtrees.
func (st *SentenceTree) remove(n *Node) bool {
	p := n.Parent
	switch {
	case p == nil:
		if len(n.Children) != 1 {
			return false
		}
		c := n.Children[0]
		c.Parent = nil
		st.Root = c
		if n.InstanceTerm != nil && c.InstanceTerm == nil {
			c.InstanceTerm = n.InstanceTerm
		}
	case len(p.Children) == 1:
		p.Children = nil
		for _, c := range n.Children {
			c.Parent = p
			p.Children = append(p.Children, c)
		}
		if n.InstanceTerm != nil && len(n.Children) == 1 && n.Children[0].InstanceTerm == nil {
			n.Children[0].InstanceTerm = n.InstanceTerm
		}
	default:
		if len(n.Children) > 1 {
			return false
		}
		for i, c := range p.Children {
			if c == n {
				if len(n.Children) == 1 {
					n.Children[0].Parent = p
					p.Children[i] = n.Children[0]
					if n.InstanceTerm != nil && n.Children[0].InstanceTerm == nil {
						n.Children[0].InstanceTerm = n.InstanceTerm
					}
				} else {
					p.Children = append(p.Children[:i], p.Children[i+1:]...)
				}
				break
			}
		}
	}
	if n.ClosedEnd && len(n.Children) == 1 {
		n.Children[0].ClosedEnd = true
	}
	n.IsRemoved = true
	if i := st.index(n); i >= 0 {
		st.Nodes = append(st.Nodes[:i], st.Nodes[i+1:]...)
	}
	return true
}

// getExpansion returns every node produced by the same rule application as
// n: the contiguous same-step segment above and below, plus same-step
// siblings on parallel paths below a common parent.
func (st *SentenceTree) getExpansion(n *Node) []*Node {
	top := n
	for top.Parent != nil && top.Parent.ExpansionStep == n.ExpansionStep {
		top = top.Parent
	}
	var out []*Node
	var collect func(m *Node)
	collect = func(m *Node) {
		if m.ExpansionStep != n.ExpansionStep || m.IsRemoved {
			return
		}
		out = append(out, m)
		for _, c := range m.Children {
			collect(c)
		}
	}
	if top.Parent != nil {
		for _, c := range top.Parent.Children {
			collect(c)
		}
	} else {
		collect(top)
	}
	return out
}

// pruneUnused drops rule applications that played no part in closing the
// tree. Called only on closed trees. First every used node marks its whole
// expansion group used (biconditional byproducts excepted); then every node
// still unused is removed. A node whose removal is refused survives.
func (st *SentenceTree) pruneUnused() {
	for _, n := range append([]*Node{}, st.Nodes...) {
		if !n.Used {
			continue
		}
		for _, e := range st.getExpansion(n) {
			if !e.BiconditionalExpansion {
				e.Used = true
			}
		}
	}
	for _, n := range append([]*Node{}, st.Nodes...) {
		if !n.Used {
			st.remove(n)
		}
	}
}

// String renders one node per line with its number, formula, world label
// and provenance, indenting each branch point.
func (st *SentenceTree) String() string {
	nums := make(map[*Node]int, len(st.Nodes))
	for i, n := range st.Nodes {
		nums[n] = i + 1
	}
	var b strings.Builder
	var render func(n *Node, depth int)
	render = func(n *Node, depth int) {
		b.WriteString(strings.Repeat("  ", depth))
		fmt.Fprintf(&b, "%d. %s", nums[n], n.Formula.String())
		if w := formulaWorld(n.Formula); w != "" {
			fmt.Fprintf(&b, " (%s)", w)
		}
		if n.FromRule != RuleInitial {
			b.WriteString("  (")
			b.WriteString(string(n.FromRule))
			for i, o := range n.FromNodes {
				if i == 0 {
					b.WriteString(" from ")
				} else {
					b.WriteString(",")
				}
				fmt.Fprintf(&b, "%d", nums[o])
			}
			b.WriteString(")")
		}
		if n.ClosedEnd {
			b.WriteString("  ✗")
		}
		b.WriteString("\n")
		for _, c := range n.Children {
			d := depth
			if len(n.Children) > 1 {
				d = depth + 1
			}
			render(c, d)
		}
	}
	if st.Root != nil {
		render(st.Root, 0)
	}
	return b.String()
}

func formulaWorld(f formula.Formula) string {
	switch g := f.(type) {
	case *formula.Atom:
		return g.World
	case *formula.Modal:
		return g.World
	case *formula.Not:
		return formulaWorld(g.Sub)
	}
	return ""
}
