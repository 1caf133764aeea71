package parser

import (
	"fmt"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	mapset "github.com/deckarep/golang-set/v2"

	"treeproof/formula"
)

// ExprKind is the registered kind of a symbol.
type ExprKind int

const (
	IndividualConstant ExprKind = iota
	WorldConstant
	Predicate
	FunctionSymbol
	Variable
)

func (k ExprKind) String() string {
	switch k {
	case IndividualConstant:
		return "individual constant"
	case WorldConstant:
		return "world constant"
	case Predicate:
		return "predicate"
	case FunctionSymbol:
		return "function symbol"
	case Variable:
		return "variable"
	}
	return "unknown"
}

// Parser lexes formulas and records the arity and kind of every symbol it
// sees. One Parser accompanies a proof from parsing through presentation;
// the translator and the naming pass register their fresh symbols here.
type Parser struct {
	Arities        map[string]int
	ExpressionType map[string]ExprKind

	// R is the accessibility predicate reserved by the standard
	// translation.
	R string

	IsModal         bool
	IsPropositional bool

	worldSyms mapset.Set[string]

	varCount      int
	worldVarCount int
	skolemCount   int
	worldSkCount  int
}

func New() *Parser {
	return &Parser{
		Arities:        make(map[string]int),
		ExpressionType: make(map[string]ExprKind),
		R:              "R",
		worldSyms:      mapset.NewSet[string](),
	}
}

// RegisterExpression records sym with its kind and arity, overwriting any
// previous record.
func (p *Parser) RegisterExpression(sym string, kind ExprKind, arity int) {
	p.Arities[sym] = arity
	p.ExpressionType[sym] = kind
	if kind == WorldConstant {
		p.worldSyms.Add(sym)
	}
}

// MarkWorldSymbol tags sym as ranging over worlds without changing its
// registered kind.
func (p *Parser) MarkWorldSymbol(sym string) { p.worldSyms.Add(sym) }

func (p *Parser) IsWorldSymbol(sym string) bool { return p.worldSyms.Contains(sym) }

var individualLetters = []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l", "m", "n", "o"}

// GetNewConstant returns a fresh individual constant: a,b,…,o, then a2,a3,…
// Letters already registered with any kind are skipped.
func (p *Parser) GetNewConstant() string {
	for _, c := range individualLetters {
		if _, taken := p.ExpressionType[c]; !taken {
			p.RegisterExpression(c, IndividualConstant, 0)
			return c
		}
	}
	for i := 2; ; i++ {
		c := fmt.Sprintf("a%d", i)
		if _, taken := p.ExpressionType[c]; !taken {
			p.RegisterExpression(c, IndividualConstant, 0)
			return c
		}
	}
}

var functionLetters = []string{"f", "g", "h", "i", "j", "k"}

// GetNewFunctionSymbol returns a fresh function symbol: f,g,…, then f2,…
func (p *Parser) GetNewFunctionSymbol() string {
	for _, c := range functionLetters {
		if _, taken := p.ExpressionType[c]; !taken {
			p.RegisterExpression(c, FunctionSymbol, 1)
			return c
		}
	}
	for i := 2; ; i++ {
		c := fmt.Sprintf("f%d", i)
		if _, taken := p.ExpressionType[c]; !taken {
			p.RegisterExpression(c, FunctionSymbol, 1)
			return c
		}
	}
}

var worldLetters = []string{"v", "u", "t", "s", "r", "q", "p", "o", "n", "m", "l", "k", "j", "i", "h", "g", "f", "e", "d", "c", "b", "a"}

// GetNewWorldName returns a fresh world constant drawn from v,u,t,…
// (skipping w, which names the distinguished base world), then w2,w3,…
// With skolem set it returns an ω-prefixed world function symbol instead.
func (p *Parser) GetNewWorldName(skolem bool) string {
	if skolem {
		p.worldSkCount++
		sym := fmt.Sprintf("ω%d", p.worldSkCount)
		p.Arities[sym] = 1
		p.ExpressionType[sym] = FunctionSymbol
		p.worldSyms.Add(sym)
		return sym
	}
	for _, c := range worldLetters {
		if _, taken := p.ExpressionType[c]; !taken {
			p.RegisterExpression(c, WorldConstant, 0)
			return c
		}
	}
	for i := 2; ; i++ {
		c := fmt.Sprintf("w%d", i)
		if _, taken := p.ExpressionType[c]; !taken {
			p.RegisterExpression(c, WorldConstant, 0)
			return c
		}
	}
}

// GetNewWorldVariable returns a fresh bound world variable for the standard
// translation, drawn from the world letter sequence.
func (p *Parser) GetNewWorldVariable() string {
	for _, c := range worldLetters {
		if _, taken := p.ExpressionType[c]; !taken {
			p.Arities[c] = 0
			p.ExpressionType[c] = Variable
			p.worldSyms.Add(c)
			return c
		}
	}
	for i := 2; ; i++ {
		c := fmt.Sprintf("v%d", i)
		if _, taken := p.ExpressionType[c]; !taken {
			p.Arities[c] = 0
			p.ExpressionType[c] = Variable
			p.worldSyms.Add(c)
			return c
		}
	}
}

// FreshFreeVariable returns a prover free variable ξn.
func (p *Parser) FreshFreeVariable() string {
	p.varCount++
	sym := fmt.Sprintf("ξ%d", p.varCount)
	p.Arities[sym] = 0
	p.ExpressionType[sym] = Variable
	return sym
}

// FreshFreeWorldVariable returns a prover free world variable ζn.
func (p *Parser) FreshFreeWorldVariable() string {
	p.worldVarCount++
	sym := fmt.Sprintf("ζ%d", p.worldVarCount)
	p.Arities[sym] = 0
	p.ExpressionType[sym] = Variable
	p.worldSyms.Add(sym)
	return sym
}

// FreshSkolemFunction returns a prover Skolem symbol φn.
func (p *Parser) FreshSkolemFunction() string {
	p.skolemCount++
	sym := fmt.Sprintf("φ%d", p.skolemCount)
	p.Arities[sym] = 1
	p.ExpressionType[sym] = FunctionSymbol
	return sym
}

var formulaLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Iff", Pattern: `↔|<->`},
	{Name: "Imp", Pattern: `→|->`},
	{Name: "And", Pattern: `∧|&`},
	{Name: "Or", Pattern: `∨|\|`},
	{Name: "Not", Pattern: `¬|~`},
	{Name: "Box", Pattern: `□|\[\]`},
	{Name: "Dia", Pattern: `◇|<>`},
	{Name: "All", Pattern: `∀`},
	{Name: "Ex", Pattern: `∃`},
	{Name: "Pred", Pattern: `[A-Z][0-9]*`},
	{Name: "Ident", Pattern: `[a-zξζφω][0-9]*`},
	{Name: "Paren", Pattern: `[()]`},
	{Name: "whitespace", Pattern: `\s+`},
})

type astFormula struct {
	Left  *astImp `@@`
	Right *astImp `( Iff @@ )?`
}

type astImp struct {
	Left  *astOr  `@@`
	Right *astImp `( Imp @@ )?`
}

type astOr struct {
	First *astAnd   `@@`
	Rest  []*astAnd `( Or @@ )*`
}

type astAnd struct {
	First *astUnary   `@@`
	Rest  []*astUnary `( And @@ )*`
}

type astUnary struct {
	Neg   *astUnary   `  Not @@`
	Box   *astUnary   `| Box @@`
	Dia   *astUnary   `| Dia @@`
	All   *astQuant   `| All @@`
	Ex    *astQuant   `| Ex @@`
	Group *astFormula `| "(" @@ ")"`
	Atom  *astAtom    `| @@`
}

type astQuant struct {
	Var  string    `@Ident`
	Body *astUnary `@@`
}

type astAtom struct {
	Pred  string     `( @Pred | @Ident )`
	Terms []*astTerm `@@*`
}

type astTerm struct {
	Sym  string     `@Ident`
	Args []*astTerm `( "(" @@+ ")" )?`
}

var formulaParser = participle.MustBuild[astFormula](
	participle.Lexer(formulaLexer),
	participle.UseLookahead(2),
)

// ParseFormula parses s, recording every predicate's arity and every term
// symbol's kind as a side effect.
func (p *Parser) ParseFormula(s string) (formula.Formula, error) {
	ast, err := formulaParser.ParseString("", s)
	if err != nil {
		return nil, err
	}
	f, err := p.convFormula(ast, nil)
	if err != nil {
		return nil, err
	}
	p.IsPropositional = true
	for sym, kind := range p.ExpressionType {
		if kind == Predicate && p.Arities[sym] > 0 {
			p.IsPropositional = false
		}
	}
	return f, nil
}

func (p *Parser) convFormula(a *astFormula, bound []string) (formula.Formula, error) {
	left, err := p.convImp(a.Left, bound)
	if err != nil || a.Right == nil {
		return left, err
	}
	right, err := p.convImp(a.Right, bound)
	if err != nil {
		return nil, err
	}
	return &formula.Binary{Op: formula.OpIff, Sub1: left, Sub2: right}, nil
}

func (p *Parser) convImp(a *astImp, bound []string) (formula.Formula, error) {
	left, err := p.convOr(a.Left, bound)
	if err != nil || a.Right == nil {
		return left, err
	}
	right, err := p.convImp(a.Right, bound)
	if err != nil {
		return nil, err
	}
	return &formula.Binary{Op: formula.OpImp, Sub1: left, Sub2: right}, nil
}

func (p *Parser) convOr(a *astOr, bound []string) (formula.Formula, error) {
	out, err := p.convAnd(a.First, bound)
	if err != nil {
		return nil, err
	}
	for _, r := range a.Rest {
		next, err := p.convAnd(r, bound)
		if err != nil {
			return nil, err
		}
		out = &formula.Binary{Op: formula.OpOr, Sub1: out, Sub2: next}
	}
	return out, nil
}

func (p *Parser) convAnd(a *astAnd, bound []string) (formula.Formula, error) {
	out, err := p.convUnary(a.First, bound)
	if err != nil {
		return nil, err
	}
	for _, r := range a.Rest {
		next, err := p.convUnary(r, bound)
		if err != nil {
			return nil, err
		}
		out = &formula.Binary{Op: formula.OpAnd, Sub1: out, Sub2: next}
	}
	return out, nil
}

func (p *Parser) convUnary(a *astUnary, bound []string) (formula.Formula, error) {
	switch {
	case a.Neg != nil:
		sub, err := p.convUnary(a.Neg, bound)
		if err != nil {
			return nil, err
		}
		return &formula.Not{Sub: sub}, nil
	case a.Box != nil:
		sub, err := p.convUnary(a.Box, bound)
		if err != nil {
			return nil, err
		}
		return &formula.Modal{Op: formula.OpBox, Sub: sub}, nil
	case a.Dia != nil:
		sub, err := p.convUnary(a.Dia, bound)
		if err != nil {
			return nil, err
		}
		return &formula.Modal{Op: formula.OpDia, Sub: sub}, nil
	case a.All != nil:
		return p.convQuant(a.All, formula.OpAll, bound)
	case a.Ex != nil:
		return p.convQuant(a.Ex, formula.OpEx, bound)
	case a.Group != nil:
		return p.convFormula(a.Group, bound)
	case a.Atom != nil:
		return p.convAtom(a.Atom, bound)
	}
	return nil, fmt.Errorf("empty formula")
}

func (p *Parser) convQuant(a *astQuant, q string, bound []string) (formula.Formula, error) {
	p.Arities[a.Var] = 0
	p.ExpressionType[a.Var] = Variable
	matrix, err := p.convUnary(a.Body, append(bound, a.Var))
	if err != nil {
		return nil, err
	}
	return &formula.Quant{Q: q, Var: formula.T(a.Var), Matrix: matrix}, nil
}

func (p *Parser) convAtom(a *astAtom, bound []string) (formula.Formula, error) {
	terms := make([]formula.Term, len(a.Terms))
	for i, t := range a.Terms {
		terms[i] = p.convTerm(t, bound)
	}
	if prev, seen := p.Arities[a.Pred]; seen && p.ExpressionType[a.Pred] == Predicate && prev != len(terms) {
		return nil, fmt.Errorf("predicate %s used with arity %d and %d", a.Pred, prev, len(terms))
	}
	p.RegisterExpression(a.Pred, Predicate, len(terms))
	return &formula.Atom{Pred: a.Pred, Terms: terms}, nil
}

func (p *Parser) convTerm(a *astTerm, bound []string) formula.Term {
	if len(a.Args) > 0 {
		args := make([]formula.Term, len(a.Args))
		for i, s := range a.Args {
			args[i] = p.convTerm(s, bound)
		}
		p.Arities[a.Sym] = len(args)
		p.ExpressionType[a.Sym] = FunctionSymbol
		return formula.T(a.Sym, args...)
	}
	for _, b := range bound {
		if b == a.Sym {
			return formula.T(a.Sym)
		}
	}
	if _, seen := p.ExpressionType[a.Sym]; !seen {
		// x, y, z are read as implicitly universal variables, the
		// convention for clause-form input; everything else is an
		// individual constant.
		switch a.Sym {
		case "x", "y", "z":
			p.RegisterExpression(a.Sym, Variable, 0)
		default:
			p.RegisterExpression(a.Sym, IndividualConstant, 0)
		}
	}
	return formula.T(a.Sym)
}
