package tableau

import (
	"treeproof/formula"
	"treeproof/parser"
)

// Rule tags the tableau rule application that produced a node.
type Rule string

const (
	RuleInitial    Rule = "initial"
	RuleAlpha      Rule = "alpha"
	RuleBeta       Rule = "beta"
	RuleGamma      Rule = "gamma"
	RuleDelta      Rule = "delta"
	RuleModalGamma Rule = "modalGamma"
	RuleModalDelta Rule = "modalDelta"
	RuleDNE        Rule = "dne"
)

// Node is a tableau entry. The prover allocates nodes into branch lists;
// the sentence-tree assembler later adopts the same objects and links them
// into parent/child shape. Each node owns its FromNodes slice: rewriting
// one node's origins must never be observable through another node.
type Node struct {
	Formula formula.Formula

	// FromNodes are the premises of the rule application that produced
	// this node; each is an ancestor on the path to the root.
	FromNodes []*Node
	FromRule  Rule

	// InstanceTerm is the term substituted by gamma/delta/modal steps.
	InstanceTerm *formula.Term

	// ExpansionStep identifies the rule application that produced this
	// node together with its siblings from the same application.
	ExpansionStep int

	Used      bool
	ClosedEnd bool

	Parent    *Node
	Children  []*Node
	IsSenNode bool

	BiconditionalExpansion bool
	DneTo                  *Node
	SwappedWith            *Node
	IsRemoved              bool
}

// NewNode builds a node with its own FromNodes copy.
func NewNode(f formula.Formula, rule Rule, from []*Node, step int) *Node {
	return &Node{
		Formula:       f,
		FromRule:      rule,
		FromNodes:     append([]*Node{}, from...),
		ExpansionStep: step,
	}
}

// Branch is an ordered node sequence of the free-variable tree. Branches
// that diverge at a beta step share the node objects of their common
// prefix.
type Branch struct {
	Nodes []*Node
}

// Last returns the final node of the branch.
func (b *Branch) Last() *Node {
	if len(b.Nodes) == 0 {
		return nil
	}
	return b.Nodes[len(b.Nodes)-1]
}

// FVTree is the search-oriented result of the free-variable tableau prover:
// branches as node lists, plus the initial formulas in three aligned
// versions (as parsed, demodalized, normalized).
type FVTree struct {
	InitFormulas           []formula.Formula
	InitFormulasNonModal   []formula.Formula
	InitFormulasNormalized []formula.Formula

	ClosedBranches []*Branch
	OpenBranches   []*Branch

	Parser *parser.Parser
	S5     bool
}

// Closed reports whether every branch closed.
func (fv *FVTree) Closed() bool { return len(fv.OpenBranches) == 0 }
