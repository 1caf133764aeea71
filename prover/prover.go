// Package prover searches for a closed free-variable tableau: gamma steps
// instantiate with fresh ξ/ζ variables resolved later by unification, delta
// steps Skolemize, and a branch closes when two complementary literals
// unify. The result is the FVTree consumed by the sentence-tree assembler.
package prover

import (
	"treeproof/formula"
	"treeproof/modal"
	"treeproof/parser"
	"treeproof/tableau"
)

type Options struct {
	// S5 collapses the accessibility structure: world quantifiers expand
	// directly to their matrix without materializing Rwv.
	S5 bool
	// MaxSteps bounds the number of rule applications; 0 means 5000.
	MaxSteps int
	// GammaLimit bounds instantiations per gamma node and branch; 0
	// means 2.
	GammaLimit int
}

// Prove searches for a proof of f. The returned tree is closed when f is
// valid; otherwise its open branches feed countermodel extraction.
func Prove(f formula.Formula, p *parser.Parser, opts Options) *tableau.FVTree {
	return ProveArgument(nil, f, p, opts)
}

// ProveArgument searches for a proof of conclusion from premises. The
// initial formulas are the premises plus the negated conclusion.
func ProveArgument(premises []formula.Formula, conclusion formula.Formula, p *parser.Parser, opts Options) *tableau.FVTree {
	if opts.MaxSteps == 0 {
		opts.MaxSteps = 5000
	}
	if opts.GammaLimit == 0 {
		opts.GammaLimit = 2
	}
	inits := append(append([]formula.Formula{}, premises...), formula.Negate(conclusion))
	anyModal := false
	for _, g := range inits {
		if modal.ContainsModal(g) {
			anyModal = true
		}
	}
	fv := &tableau.FVTree{Parser: p, S5: opts.S5}
	for _, g := range inits {
		nonModal := g
		if anyModal {
			nonModal = modal.TranslateFromModal(g, p)
		}
		fv.InitFormulas = append(fv.InitFormulas, g)
		fv.InitFormulasNonModal = append(fv.InitFormulasNonModal, nonModal)
		fv.InitFormulasNormalized = append(fv.InitFormulasNormalized, formula.Normalize(nonModal))
	}
	pr := &prover{fv: fv, parser: p, opts: opts}
	pr.run()
	return fv
}

type searchBranch struct {
	nodes     []*tableau.Node
	todo      []*tableau.Node
	gammaUses map[*tableau.Node]int
	closed    bool
}

func (b *searchBranch) clone() *searchBranch {
	uses := make(map[*tableau.Node]int, len(b.gammaUses))
	for k, v := range b.gammaUses {
		uses[k] = v
	}
	return &searchBranch{
		nodes:     append([]*tableau.Node{}, b.nodes...),
		todo:      append([]*tableau.Node{}, b.todo...),
		gammaUses: uses,
	}
}

type prover struct {
	fv       *tableau.FVTree
	parser   *parser.Parser
	opts     Options
	branches []*searchBranch
	step     int
	count    int
}

func (pr *prover) run() {
	root := &searchBranch{gammaUses: make(map[*tableau.Node]int)}
	for _, nf := range pr.fv.InitFormulasNormalized {
		n := tableau.NewNode(nf, tableau.RuleInitial, nil, pr.step)
		pr.step++
		pr.add(root, n)
	}
	pr.branches = []*searchBranch{root}
	for pr.count < pr.opts.MaxSteps {
		br := pr.nextBranch()
		if br == nil {
			break
		}
		n := pr.nextNode(br)
		if n == nil {
			continue
		}
		pr.expand(br, n)
		pr.count++
	}
	for _, br := range pr.branches {
		b := &tableau.Branch{Nodes: br.nodes}
		if br.closed {
			pr.fv.ClosedBranches = append(pr.fv.ClosedBranches, b)
		} else {
			pr.fv.OpenBranches = append(pr.fv.OpenBranches, b)
		}
	}
}

func (pr *prover) nextBranch() *searchBranch {
	for _, br := range pr.branches {
		if !br.closed && len(br.todo) > 0 {
			return br
		}
	}
	return nil
}

// nextNode pops the best unexpanded node: alpha before delta before beta
// before gamma, so branching and reusable instantiations come last.
func (pr *prover) nextNode(br *searchBranch) *tableau.Node {
	best, bestRank := -1, 0
	for i, n := range br.todo {
		r := rank(n.Formula)
		if best < 0 || r < bestRank {
			best, bestRank = i, r
		}
	}
	if best < 0 {
		return nil
	}
	n := br.todo[best]
	br.todo = append(br.todo[:best], br.todo[best+1:]...)
	return n
}

func rank(f formula.Formula) int {
	switch g := f.(type) {
	case *formula.Binary:
		if g.Op == formula.OpAnd {
			return 0
		}
		return 2
	case *formula.Quant:
		if g.Q == formula.OpEx {
			return 1
		}
		return 3
	}
	return 4
}

// attach appends a node to a branch; non-literals join the work queue.
// Closure checks run separately, after every node of a rule application is
// on its branch, so a closing substitution reaches all of them.
func (pr *prover) attach(br *searchBranch, n *tableau.Node) {
	br.nodes = append(br.nodes, n)
	switch n.Formula.(type) {
	case *formula.Binary, *formula.Quant:
		br.todo = append(br.todo, n)
	}
}

func (pr *prover) closeIfLiteral(br *searchBranch, n *tableau.Node) {
	if br.closed {
		return
	}
	if _, _, ok := literalAtom(n.Formula); ok {
		pr.tryClose(br, n)
	}
}

func (pr *prover) add(br *searchBranch, n *tableau.Node) {
	pr.attach(br, n)
	pr.closeIfLiteral(br, n)
}

func (pr *prover) expand(br *searchBranch, n *tableau.Node) {
	switch g := n.Formula.(type) {
	case *formula.Binary:
		if g.Op == formula.OpAnd {
			step := pr.step
			pr.step++
			first := tableau.NewNode(g.Sub1, tableau.RuleAlpha, []*tableau.Node{n}, step)
			second := tableau.NewNode(g.Sub2, tableau.RuleAlpha, []*tableau.Node{n}, step)
			pr.attach(br, first)
			pr.attach(br, second)
			pr.closeIfLiteral(br, first)
			pr.closeIfLiteral(br, second)
			return
		}
		step := pr.step
		pr.step++
		left := tableau.NewNode(g.Sub1, tableau.RuleBeta, []*tableau.Node{n}, step)
		right := tableau.NewNode(g.Sub2, tableau.RuleBeta, []*tableau.Node{n}, step)
		sibling := br.clone()
		pr.insertAfter(br, sibling)
		pr.attach(br, left)
		pr.attach(sibling, right)
		pr.closeIfLiteral(br, left)
		pr.closeIfLiteral(sibling, right)
	case *formula.Quant:
		if g.Q == formula.OpAll {
			pr.expandGamma(br, n, g)
		} else {
			pr.expandDelta(br, n, g)
		}
	}
}

func (pr *prover) insertAfter(br, sibling *searchBranch) {
	for i, b := range pr.branches {
		if b == br {
			rest := append([]*searchBranch{sibling}, pr.branches[i+1:]...)
			pr.branches = append(pr.branches[:i+1], rest...)
			return
		}
	}
	pr.branches = append(pr.branches, sibling)
}

// expandGamma instantiates a universal with a fresh free variable. Under
// S5 a world quantifier with an accessibility guard expands directly to
// the guarded matrix (modalGamma). Gamma nodes are reusable up to the
// configured limit.
func (pr *prover) expandGamma(br *searchBranch, n *tableau.Node, g *formula.Quant) {
	world := pr.parser.IsWorldSymbol(g.Var.Sym)
	var v formula.Term
	if world {
		v = formula.T(pr.parser.FreshFreeWorldVariable())
	} else {
		v = formula.T(pr.parser.FreshFreeVariable())
	}
	rule := tableau.RuleGamma
	matrix := g.Matrix
	if pr.opts.S5 && world {
		if stripped, ok := guardedMatrix(g.Matrix, pr.parser.R, g.Var); ok {
			rule = tableau.RuleModalGamma
			matrix = stripped
		}
	}
	inst := formula.Substitute(matrix, g.Var, v, false)
	step := pr.step
	pr.step++
	child := tableau.NewNode(inst, rule, []*tableau.Node{n}, step)
	child.InstanceTerm = &v
	pr.add(br, child)
	br.gammaUses[n]++
	if br.gammaUses[n] < pr.opts.GammaLimit {
		br.todo = append(br.todo, n)
	}
}

// expandDelta Skolemizes an existential: the bound variable becomes a
// φ/ω-term over the free variables of the formula.
func (pr *prover) expandDelta(br *searchBranch, n *tableau.Node, g *formula.Quant) {
	world := pr.parser.IsWorldSymbol(g.Var.Sym)
	args := freeVariables(g.Matrix)
	var sym string
	if world {
		sym = pr.parser.GetNewWorldName(true)
	} else {
		sym = pr.parser.FreshSkolemFunction()
	}
	sk := formula.T(sym, args...)
	rule := tableau.RuleDelta
	matrix := g.Matrix
	if pr.opts.S5 && world {
		if stripped, ok := guardedMatrix(g.Matrix, pr.parser.R, g.Var); ok {
			rule = tableau.RuleModalDelta
			matrix = stripped
		}
	}
	inst := formula.Substitute(matrix, g.Var, sk, false)
	step := pr.step
	pr.step++
	child := tableau.NewNode(inst, rule, []*tableau.Node{n}, step)
	child.InstanceTerm = &sk
	pr.add(br, child)
}

// guardedMatrix matches ¬Rxv∨A and Rxv∧A, returning A.
func guardedMatrix(matrix formula.Formula, r string, v formula.Term) (formula.Formula, bool) {
	b, ok := matrix.(*formula.Binary)
	if !ok {
		return nil, false
	}
	guard := b.Sub1
	if b.Op == formula.OpOr {
		neg, isNeg := guard.(*formula.Not)
		if !isNeg {
			return nil, false
		}
		guard = neg.Sub
	} else if b.Op != formula.OpAnd {
		return nil, false
	}
	a, isAtom := guard.(*formula.Atom)
	if !isAtom || a.Pred != r || len(a.Terms) != 2 || !a.Terms[1].Equals(v) {
		return nil, false
	}
	return b.Sub2, true
}

func freeVariables(f formula.Formula) []formula.Term {
	var out []formula.Term
	seen := make(map[string]bool)
	formula.Walk(f, func(t formula.Term) bool {
		if t.Atomic() && isFreeVar(t.Sym) && !seen[t.Sym] {
			seen[t.Sym] = true
			out = append(out, t)
		}
		return true
	})
	return out
}

// tryClose looks for a literal on the branch complementary to lit. On a
// successful unification the binding is applied to the whole tree and the
// branch closes.
func (pr *prover) tryClose(br *searchBranch, lit *tableau.Node) bool {
	a1, neg1, ok := literalAtom(lit.Formula)
	if !ok {
		return false
	}
	for _, m := range br.nodes {
		if m == lit {
			continue
		}
		a2, neg2, isLit := literalAtom(m.Formula)
		if !isLit || neg1 == neg2 {
			continue
		}
		sub := make(Substitution)
		if !unifyAtoms(a1, a2, sub) {
			continue
		}
		pr.applyGlobal(sub)
		br.closed = true
		br.nodes[len(br.nodes)-1].ClosedEnd = true
		markUsed(lit)
		markUsed(m)
		pr.recheckBranches()
		return true
	}
	return false
}

// recheckBranches closes any branch the latest substitution made closable.
func (pr *prover) recheckBranches() {
	for _, br := range pr.branches {
		if br.closed {
			continue
		}
		for _, n := range br.nodes {
			if _, _, ok := literalAtom(n.Formula); ok {
				if pr.tryClose(br, n) {
					break
				}
			}
		}
	}
}

func (pr *prover) applyGlobal(sub Substitution) {
	if len(sub) == 0 {
		return
	}
	seen := make(map[*tableau.Node]bool)
	for _, br := range pr.branches {
		for _, n := range br.nodes {
			if seen[n] {
				continue
			}
			seen[n] = true
			n.Formula = apply(n.Formula, sub)
			if n.InstanceTerm != nil {
				t := resolve(*n.InstanceTerm, sub)
				n.InstanceTerm = &t
			}
		}
	}
}

func literalAtom(f formula.Formula) (*formula.Atom, bool, bool) {
	switch g := f.(type) {
	case *formula.Atom:
		return g, false, true
	case *formula.Not:
		if a, ok := g.Sub.(*formula.Atom); ok {
			return a, true, true
		}
	}
	return nil, false, false
}

func markUsed(n *tableau.Node) {
	if n.Used {
		return
	}
	n.Used = true
	for _, o := range n.FromNodes {
		markUsed(o)
	}
}
