// Package model implements first-order models over finite integer domains:
// the canonical countermodels read off open tableau branches, and a small
// SAT-backed modelfinder.
package model

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"treeproof/formula"
	"treeproof/parser"
)

// Model interprets individuals and worlds as integers. Denotations maps
// ground-term strings to elements; predicate extensions hold the tuples at
// which a predicate is (or is known not to be) true.
type Model struct {
	Domain []int
	Worlds []int

	Denotations      map[string]int
	WorldDenotations map[string]int

	// Funcs interprets a function symbol pointwise: argument tuple key to
	// value element.
	Funcs map[string]map[string]int

	extPos map[string]mapset.Set[string]
	extNeg map[string]mapset.Set[string]

	parser *parser.Parser
}

func New(p *parser.Parser, nIndivs, nWorlds int) *Model {
	m := &Model{
		Denotations:      make(map[string]int),
		WorldDenotations: make(map[string]int),
		Funcs:            make(map[string]map[string]int),
		extPos:           make(map[string]mapset.Set[string]),
		extNeg:           make(map[string]mapset.Set[string]),
		parser:           p,
	}
	for i := 0; i < nIndivs; i++ {
		m.Domain = append(m.Domain, i)
	}
	for i := 0; i < nWorlds; i++ {
		m.Worlds = append(m.Worlds, i)
	}
	// world 0 is reserved for the base world
	if nWorlds > 0 {
		m.WorldDenotations["w"] = 0
	}
	return m
}

// EnsureNonEmpty promotes an empty domain to {0}.
func (m *Model) EnsureNonEmpty() {
	if len(m.Domain) == 0 {
		m.Domain = []int{0}
	}
}

func (m *Model) isWorldTerm(t formula.Term) bool {
	return m.parser.IsWorldSymbol(t.Sym) || m.parser.ExpressionType[t.Sym] == parser.WorldConstant
}

// Denote assigns (or looks up) the element a ground term stands for,
// growing the domain the first time a term string appears. A composite
// term also records its function symbol's value at the argument tuple.
func (m *Model) Denote(t formula.Term) int {
	// element literals produced by quantifier instantiation
	if strings.HasPrefix(t.Sym, "#") {
		k, _ := strconv.Atoi(t.Sym[1:])
		return k
	}
	world := m.isWorldTerm(t)
	key := t.String()
	if world {
		if e, ok := m.WorldDenotations[key]; ok {
			return e
		}
	} else if e, ok := m.Denotations[key]; ok {
		return e
	}
	args := make([]int, len(t.Args))
	for i, a := range t.Args {
		args[i] = m.Denote(a)
	}
	var e int
	if world {
		e = len(m.Worlds)
		m.Worlds = append(m.Worlds, e)
		m.WorldDenotations[key] = e
	} else {
		e = len(m.Domain)
		m.Domain = append(m.Domain, e)
		m.Denotations[key] = e
	}
	if len(t.Args) > 0 {
		if m.Funcs[t.Sym] == nil {
			m.Funcs[t.Sym] = make(map[string]int)
		}
		m.Funcs[t.Sym][tupleKey(args)] = e
	}
	return e
}

func tupleKey(elems []int) string {
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = strconv.Itoa(e)
	}
	return strings.Join(parts, ",")
}

func (m *Model) atomTuple(a *formula.Atom) string {
	elems := make([]int, len(a.Terms))
	for i, t := range a.Terms {
		elems[i] = m.Denote(t)
	}
	return tupleKey(elems)
}

// Ground reports whether t contains no variable symbol.
func (m *Model) Ground(t formula.Term) bool {
	if m.parser.ExpressionType[t.Sym] == parser.Variable {
		return false
	}
	for _, a := range t.Args {
		if !m.Ground(a) {
			return false
		}
	}
	return true
}

// Absorb registers every ground term of f in the domain and adds the
// tuples of positive ground atoms to their predicates' extensions.
// Negated atoms contribute nothing: an open canonical branch provides
// only positive facts.
func (m *Model) Absorb(f formula.Formula) {
	formula.Walk(f, func(t formula.Term) bool {
		if m.Ground(t) {
			m.Denote(t)
			return false
		}
		return true
	})
	if a, ok := f.(*formula.Atom); ok {
		ground := true
		for _, t := range a.Terms {
			if !m.Ground(t) {
				ground = false
			}
		}
		if ground {
			m.addPos(a.Pred, m.atomTuple(a))
		}
	}
}

func (m *Model) addPos(pred, tuple string) bool {
	if s, ok := m.extNeg[pred]; ok && s.Contains(tuple) {
		return false
	}
	if m.extPos[pred] == nil {
		m.extPos[pred] = mapset.NewSet[string]()
	}
	m.extPos[pred].Add(tuple)
	return true
}

func (m *Model) addNeg(pred, tuple string) bool {
	if s, ok := m.extPos[pred]; ok && s.Contains(tuple) {
		return false
	}
	if m.extNeg[pred] == nil {
		m.extNeg[pred] = mapset.NewSet[string]()
	}
	m.extNeg[pred].Add(tuple)
	return true
}

// Holds reports whether the predicate is true at the tuple.
func (m *Model) Holds(pred string, elems []int) bool {
	s, ok := m.extPos[pred]
	return ok && s.Contains(tupleKey(elems))
}

type snapshot struct {
	domain, worlds []int
	denot, wdenot  map[string]int
	funcs          map[string]map[string]int
	pos, neg       map[string]mapset.Set[string]
}

func (m *Model) save() snapshot {
	s := snapshot{
		domain: append([]int{}, m.Domain...),
		worlds: append([]int{}, m.Worlds...),
		denot:  make(map[string]int, len(m.Denotations)),
		wdenot: make(map[string]int, len(m.WorldDenotations)),
		funcs:  make(map[string]map[string]int, len(m.Funcs)),
		pos:    make(map[string]mapset.Set[string], len(m.extPos)),
		neg:    make(map[string]mapset.Set[string], len(m.extNeg)),
	}
	for k, v := range m.Denotations {
		s.denot[k] = v
	}
	for k, v := range m.WorldDenotations {
		s.wdenot[k] = v
	}
	for k, v := range m.Funcs {
		inner := make(map[string]int, len(v))
		for a, e := range v {
			inner[a] = e
		}
		s.funcs[k] = inner
	}
	for k, v := range m.extPos {
		s.pos[k] = v.Clone()
	}
	for k, v := range m.extNeg {
		s.neg[k] = v.Clone()
	}
	return s
}

func (m *Model) restore(s snapshot) {
	m.Domain, m.Worlds = s.domain, s.worlds
	m.Denotations, m.WorldDenotations = s.denot, s.wdenot
	m.Funcs = s.funcs
	m.extPos, m.extNeg = s.pos, s.neg
}

// ExtendToSatisfy tries to extend the model's partial denotations and
// extensions so that f comes out true, reporting success. On failure the
// model is left unchanged.
func (m *Model) ExtendToSatisfy(f formula.Formula) bool {
	snap := m.save()
	if m.satisfy(formula.Normalize(f)) {
		return true
	}
	m.restore(snap)
	return false
}

func (m *Model) satisfy(f formula.Formula) bool {
	switch g := f.(type) {
	case *formula.Atom:
		return m.addPos(g.Pred, m.atomTuple(g))
	case *formula.Not:
		a, ok := g.Sub.(*formula.Atom)
		if !ok {
			return false
		}
		return m.addNeg(a.Pred, m.atomTuple(a))
	case *formula.Binary:
		switch g.Op {
		case formula.OpAnd:
			snap := m.save()
			if m.satisfy(g.Sub1) && m.satisfy(g.Sub2) {
				return true
			}
			m.restore(snap)
			return false
		case formula.OpOr:
			snap := m.save()
			if m.satisfy(g.Sub1) {
				return true
			}
			m.restore(snap)
			if m.satisfy(g.Sub2) {
				return true
			}
			m.restore(snap)
			return false
		}
	case *formula.Quant:
		elems := m.Domain
		if m.parser.IsWorldSymbol(g.Var.Sym) {
			elems = m.Worlds
		}
		if g.Q == formula.OpAll {
			snap := m.save()
			for _, e := range elems {
				inst := formula.Substitute(g.Matrix, g.Var, formula.T("#"+strconv.Itoa(e)), false)
				if !m.satisfy(inst) {
					m.restore(snap)
					return false
				}
			}
			return true
		}
		if len(elems) == 0 {
			if m.parser.IsWorldSymbol(g.Var.Sym) {
				m.Worlds = append(m.Worlds, 0)
				elems = m.Worlds
			} else {
				m.EnsureNonEmpty()
				elems = m.Domain
			}
		}
		for _, e := range elems {
			snap := m.save()
			inst := formula.Substitute(g.Matrix, g.Var, formula.T("#"+strconv.Itoa(e)), false)
			if m.satisfy(inst) {
				return true
			}
			m.restore(snap)
		}
		return false
	}
	return false
}

// SatisfiesAll extends the model to satisfy every formula in fs.
func (m *Model) SatisfiesAll(fs []formula.Formula) bool {
	for _, f := range fs {
		if !m.ExtendToSatisfy(f) {
			return false
		}
	}
	return true
}

// Extension returns a predicate's positive tuples, sorted for display.
func (m *Model) Extension(pred string) []string {
	s, ok := m.extPos[pred]
	if !ok {
		return nil
	}
	out := s.ToSlice()
	sort.Strings(out)
	return out
}

func (m *Model) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Domain: %v\n", m.Domain)
	if len(m.Worlds) > 0 {
		fmt.Fprintf(&b, "Worlds: %v\n", m.Worlds)
	}
	terms := make([]string, 0, len(m.Denotations))
	for k := range m.Denotations {
		terms = append(terms, k)
	}
	sort.Strings(terms)
	for _, k := range terms {
		fmt.Fprintf(&b, "%s: %d\n", k, m.Denotations[k])
	}
	preds := make([]string, 0, len(m.extPos))
	for k := range m.extPos {
		preds = append(preds, k)
	}
	sort.Strings(preds)
	for _, p := range preds {
		fmt.Fprintf(&b, "%s: {%s}\n", p, strings.Join(m.Extension(p), " "))
	}
	return b.String()
}
