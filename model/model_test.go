package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"treeproof/formula"
	"treeproof/model"
	"treeproof/parser"
)

func parse(t *testing.T, p *parser.Parser, s string) formula.Formula {
	t.Helper()
	f, err := p.ParseFormula(s)
	assert.NoError(t, err)
	return f
}

func TestExtendToSatisfy(t *testing.T) {
	p := parser.New()
	m := model.New(p, 0, 0)
	assert.True(t, m.ExtendToSatisfy(parse(t, p, "Fa∧¬Fb")))
	assert.True(t, m.Holds("F", []int{0}))
	assert.False(t, m.Holds("F", []int{1}))
	assert.Equal(t, []int{0, 1}, m.Domain)
}

func TestExtendToSatisfyContradiction(t *testing.T) {
	p := parser.New()
	m := model.New(p, 0, 0)
	assert.False(t, m.ExtendToSatisfy(parse(t, p, "Fa∧¬Fa")))
	// failure leaves the model unchanged
	assert.Empty(t, m.Domain)
}

func TestExtendToSatisfyDisjunction(t *testing.T) {
	p := parser.New()
	m := model.New(p, 0, 0)
	assert.True(t, m.ExtendToSatisfy(parse(t, p, "¬Fa")))
	// the first disjunct conflicts; satisfaction backtracks to the second
	assert.True(t, m.ExtendToSatisfy(parse(t, p, "Fa∨Ga")))
	assert.True(t, m.Holds("G", []int{0}))
	assert.False(t, m.Holds("F", []int{0}))
}

func TestExtendToSatisfyQuantifiers(t *testing.T) {
	p := parser.New()
	m := model.New(p, 2, 0)
	assert.True(t, m.ExtendToSatisfy(parse(t, p, "∀xFx")))
	assert.True(t, m.Holds("F", []int{0}))
	assert.True(t, m.Holds("F", []int{1}))
	assert.True(t, m.ExtendToSatisfy(parse(t, p, "∃x¬Gx")))
	assert.False(t, m.ExtendToSatisfy(parse(t, p, "∀xGx")))
}

func TestFunctionDenotations(t *testing.T) {
	p := parser.New()
	m := model.New(p, 0, 0)
	assert.True(t, m.ExtendToSatisfy(parse(t, p, "Ff(a)")))
	// a and f(a) get distinct incremental elements
	assert.Equal(t, 0, m.Denotations["a"])
	assert.Equal(t, 1, m.Denotations["f(a)"])
	assert.True(t, m.Holds("F", []int{1}))
}

func TestModelfinderBackends(t *testing.T) {
	for _, backend := range []model.Backend{model.BackendGophersat, model.BackendGini} {
		p := parser.New()
		fs := []formula.Formula{parse(t, p, "p∧¬q")}
		mf := model.NewModelfinder(p)
		mf.Backend = backend
		m := mf.Find(fs)
		if assert.NotNil(t, m) {
			assert.True(t, m.Holds("p", nil))
			assert.False(t, m.Holds("q", nil))
		}
	}
}

func TestModelfinderUnsatisfiable(t *testing.T) {
	p := parser.New()
	fs := []formula.Formula{parse(t, p, "p∧¬p")}
	mf := model.NewModelfinder(p)
	assert.Nil(t, mf.Find(fs))
}

func TestModelfinderFirstOrder(t *testing.T) {
	p := parser.New()
	fs := []formula.Formula{parse(t, p, "Fa∧¬Fb")}
	mf := model.NewModelfinder(p)
	m := mf.Find(fs)
	if assert.NotNil(t, m) {
		ea := m.Denotations["a"]
		eb := m.Denotations["b"]
		assert.True(t, m.Holds("F", []int{ea}))
		assert.False(t, m.Holds("F", []int{eb}))
	}
}

func TestModelfinderDeclinesFunctionTerms(t *testing.T) {
	p := parser.New()
	fs := []formula.Formula{parse(t, p, "Ff(a)")}
	mf := model.NewModelfinder(p)
	assert.Nil(t, mf.Find(fs))
}

func TestCheckWithProlog(t *testing.T) {
	p := parser.New()
	m := model.New(p, 0, 0)
	fs := []formula.Formula{
		parse(t, p, "Fa"),
		parse(t, p, "¬Fb"),
		parse(t, p, "∃xFx"),
	}
	assert.True(t, m.SatisfiesAll(fs))
	assert.True(t, model.CheckWithProlog(m, fs))
	assert.False(t, model.CheckWithProlog(m, []formula.Formula{parse(t, p, "Fb")}))
}

func TestCheckWithPrologPropositional(t *testing.T) {
	p := parser.New()
	m := model.New(p, 0, 0)
	fs := []formula.Formula{parse(t, p, "p∧¬q")}
	assert.True(t, m.SatisfiesAll(fs))
	assert.True(t, model.CheckWithProlog(m, fs))
}
