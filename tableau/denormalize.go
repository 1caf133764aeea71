package tableau

import (
	"log"

	"treeproof/formula"
)

// initNodes adopts the fvTree's initial nodes as the root chain, restoring
// their demodalized, unnormalized formulas.
func (st *SentenceTree) initNodes() {
	branches := append(append([]*Branch{}, st.FV.ClosedBranches...), st.FV.OpenBranches...)
	if len(branches) == 0 {
		return
	}
	var tip *Node
	i := 0
	for _, n := range branches[0].Nodes {
		if n.FromRule != RuleInitial {
			break
		}
		st.makeNode(n)
		if i < len(st.InitFormulasNonModal) {
			n.Formula = st.InitFormulasNonModal[i]
		}
		st.appendChild(tip, n)
		tip = n
		i++
	}
}

// transferBranch walks one fvTree branch, adopting each node not yet in the
// sentence tree below the deepest already-adopted node of the branch.
func (st *SentenceTree) transferBranch(br *Branch) {
	var tip *Node
	for i, n := range br.Nodes {
		if n.IsSenNode {
			tip = n
			continue
		}
		var next *Node
		if i+1 < len(br.Nodes) {
			next = br.Nodes[i+1]
		}
		tip = st.transferNode(n, next, st.slideTip(tip))
	}
}

// slideTip follows double-negation nodes spliced below tip, so that new
// children attach under them.
func (st *SentenceTree) slideTip(tip *Node) *Node {
	if tip == nil {
		return nil
	}
	if tip.SwappedWith != nil && tip.SwappedWith.Parent == tip {
		// tip was reversed above its alpha partner; the partner is the
		// real end of the branch
		tip = tip.SwappedWith
	}
	for len(tip.Children) == 1 && tip.Children[0].FromRule == RuleDNE {
		tip = tip.Children[0]
	}
	return tip
}

// origin resolves n's first premise, following double-negation redirects
// and rewriting n's own origin list as it goes.
func (st *SentenceTree) origin(n *Node) *Node {
	if len(n.FromNodes) == 0 {
		return nil
	}
	o := n.FromNodes[0]
	for o.DneTo != nil {
		o = o.DneTo
	}
	if o != n.FromNodes[0] {
		n.FromNodes = append([]*Node{o}, n.FromNodes[1:]...)
	}
	return o
}

// transferNode denormalizes one node against its origin and appends it to
// the tree; next is the node following it on the branch. Returns the new
// branch tip.
func (st *SentenceTree) transferNode(n, next, tip *Node) *Node {
	st.makeNode(n)
	o := st.origin(n)
	if o != nil && o.Formula.Type() == formula.DoubleNegation {
		st.expandDoubleNegation(o)
		o = st.origin(n)
		tip = st.slideTip(tip)
	}
	switch n.FromRule {
	case RuleAlpha:
		return st.transferAlpha(n, o, next, tip)
	case RuleBeta:
		return st.transferBeta(n, o, tip)
	case RuleGamma, RuleDelta, RuleModalGamma, RuleModalDelta:
		return st.transferInstance(n, o, tip)
	default:
		st.appendChild(tip, n)
		return n
	}
}

// transferAlpha recomputes the textbook alpha results of the origin and
// picks the candidate whose NNF matches the prover's node. The first alpha
// result must end up above the second; if the pair arrived reversed, they
// are swapped.
func (st *SentenceTree) transferAlpha(n, o *Node, next, tip *Node) *Node {
	a1 := formula.AlphaOf(o.Formula, 1)
	a2 := formula.AlphaOf(o.Formula, 2)
	m1 := a1 != nil && formula.Normalize(a1).Equals(formula.Normalize(n.Formula))
	m2 := a2 != nil && formula.Normalize(a2).Equals(formula.Normalize(n.Formula))
	gotFirst := false
	switch {
	case m1 && m2:
		// both candidates share one NNF; the node is the first of the
		// pair iff its sibling is the node appended after it
		if next != nil && next.FromRule == RuleAlpha && next.ExpansionStep == n.ExpansionStep && !next.IsSenNode {
			n.Formula = a1
			gotFirst = true
		} else {
			n.Formula = a2
		}
	case m1:
		n.Formula = a1
		gotFirst = true
	case m2:
		n.Formula = a2
	default:
		log.Printf("tableau: no alpha candidate of %s matches %s", o.Formula, n.Formula)
	}
	st.rewireBiconditional(n, o)
	st.appendChild(tip, n)
	if gotFirst && tip != nil && tip.FromRule == RuleAlpha &&
		tip.ExpansionStep == n.ExpansionStep && sameOrigin(tip, n) {
		// alpha2 was transferred first; swap so alpha1 sits above
		st.reverse(tip, n)
		return tip
	}
	return n
}

// transferBeta appends a branching result below the branch point,
// disambiguating equal candidates by whether a left child already exists,
// flagging biconditional byproducts, and swapping children so the first
// beta result is the left one.
func (st *SentenceTree) transferBeta(n, o *Node, tip *Node) *Node {
	b1 := formula.BetaOf(o.Formula, 1)
	b2 := formula.BetaOf(o.Formula, 2)
	m1 := b1 != nil && formula.Normalize(b1).Equals(formula.Normalize(n.Formula))
	m2 := b2 != nil && formula.Normalize(b2).Equals(formula.Normalize(n.Formula))
	switch {
	case m1 && m2:
		if tip == nil || len(tip.Children) == 0 {
			n.Formula = b1
		} else {
			n.Formula = b2
		}
	case m1:
		n.Formula = b1
	case m2:
		n.Formula = b2
	default:
		log.Printf("tableau: no beta candidate of %s matches %s", o.Formula, n.Formula)
	}
	if isBiconditional(o.Formula) {
		// ↔ normalizes to a disjunction of conjunctions; the prover's
		// beta result is an intermediate conjunction that the displayed
		// proof collapses away
		n.BiconditionalExpansion = true
		n.Used = false
	}
	st.appendChild(tip, n)
	if tip != nil && len(tip.Children) == 2 && b1 != nil && tip.Children[1].Formula.Equals(b1) {
		tip.Children[0], tip.Children[1] = tip.Children[1], tip.Children[0]
	}
	return n
}

// transferInstance rebuilds a quantifier instantiation from the origin's
// unnormalized matrix and the recorded instance term.
func (st *SentenceTree) transferInstance(n, o *Node, tip *Node) *Node {
	if n.InstanceTerm == nil {
		log.Printf("tableau: %s instance of %s lacks a term", n.FromRule, o.Formula)
		st.rewireBiconditional(n, o)
		st.appendChild(tip, n)
		return n
	}
	t := *n.InstanceTerm
	modal := n.FromRule == RuleModalGamma || n.FromRule == RuleModalDelta
	var out formula.Formula
	switch g := o.Formula.(type) {
	case *formula.Quant:
		matrix := g.Matrix
		if modal {
			matrix = stripAccess(matrix)
		}
		out = formula.Substitute(matrix, g.Var, t, false)
	case *formula.Not:
		if q, ok := g.Sub.(*formula.Quant); ok {
			matrix := q.Matrix
			if modal {
				matrix = stripAccess(matrix)
			}
			out = formula.Substitute(formula.Negate(matrix), q.Var, t, false)
		}
	}
	if out == nil {
		log.Printf("tableau: cannot instantiate %s by %s", o.Formula, t)
		out = n.Formula
	}
	n.Formula = out
	st.rewireBiconditional(n, o)
	st.appendChild(tip, n)
	return n
}

// stripAccess bypasses the accessibility conjunct of a translated modal
// matrix: Rwv→A, ¬Rwv∨A and Rwv∧A all yield A. Used for modal rules and
// under S5, where the guard is never materialized on the branch.
func stripAccess(matrix formula.Formula) formula.Formula {
	if b, ok := matrix.(*formula.Binary); ok {
		switch b.Op {
		case formula.OpImp, formula.OpAnd:
			return b.Sub2
		case formula.OpOr:
			if _, ok := b.Sub1.(*formula.Not); ok {
				return b.Sub2
			}
		}
	}
	return matrix
}

// rewireBiconditional collapses an expansion of a biconditional byproduct
// into the rule step of the biconditional itself.
func (st *SentenceTree) rewireBiconditional(n, o *Node) {
	if o != nil && o.BiconditionalExpansion && len(o.FromNodes) > 0 {
		n.FromNodes = append([]*Node{}, o.FromNodes...)
		n.ExpansionStep = o.ExpansionStep
	}
}

// expandDoubleNegation synthesizes the double-negation-elimination step the
// normal form erased: a fresh node carrying O.sub.sub is spliced below O —
// or below O's alpha sibling when O was the first result of an alpha pair —
// and every node pointing at O is redirected to it.
func (st *SentenceTree) expandDoubleNegation(o *Node) {
	if o.DneTo != nil {
		return
	}
	neg, ok := o.Formula.(*formula.Not)
	if !ok {
		return
	}
	inner, ok := neg.Sub.(*formula.Not)
	if !ok {
		return
	}
	nn := NewNode(inner.Sub, RuleDNE, []*Node{o}, st.nextStep)
	st.nextStep++
	nn.Used = true
	splice := o
	if len(o.Children) == 1 {
		c := o.Children[0]
		if c.FromRule == o.FromRule && c.ExpansionStep == o.ExpansionStep && sameOrigin(c, o) {
			// O was the first of an alpha pair: keep the pair contiguous
			splice = c
		}
	}
	nn.IsSenNode = true
	nn.Children = splice.Children
	for _, c := range nn.Children {
		c.Parent = nn
	}
	splice.Children = []*Node{nn}
	nn.Parent = splice
	if splice.ClosedEnd && len(nn.Children) == 0 {
		splice.ClosedEnd = false
		nn.ClosedEnd = true
	}
	st.Nodes = append(st.Nodes, nn)
	for _, m := range st.Nodes {
		if m == nn {
			continue
		}
		for i, from := range m.FromNodes {
			if from == o {
				rewired := append([]*Node{}, m.FromNodes...)
				rewired[i] = nn
				m.FromNodes = rewired
			}
		}
	}
	o.DneTo = nn
}

func sameOrigin(a, b *Node) bool {
	if len(a.FromNodes) != len(b.FromNodes) {
		return false
	}
	for i := range a.FromNodes {
		if a.FromNodes[i] != b.FromNodes[i] {
			return false
		}
	}
	return true
}

func isBiconditional(f formula.Formula) bool {
	if b, ok := f.(*formula.Binary); ok {
		return b.Op == formula.OpIff
	}
	if n, ok := f.(*formula.Not); ok {
		if b, ok := n.Sub.(*formula.Binary); ok {
			return b.Op == formula.OpIff
		}
	}
	return false
}
