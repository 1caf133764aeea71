package tableau

import (
	"strings"

	"treeproof/formula"
)

// nameVariables walks the flat node list in order and replaces every free
// variable (ξ, ζ) and every Skolem term (rooted at φ or ω) by a fresh
// surface constant. The translation map persists across the pass, so the
// same term becomes the same constant everywhere; the assignment is fully
// determined by the final tree shape.
func (st *SentenceTree) nameVariables() {
	names := make(map[string]string)
	for _, n := range st.Nodes {
		n.Formula = formula.MapTerms(n.Formula, func(t formula.Term) formula.Term {
			return st.renameTerm(t, names)
		})
		if n.InstanceTerm != nil {
			t := st.renameTerm(*n.InstanceTerm, names)
			n.InstanceTerm = &t
		}
	}
}

func (st *SentenceTree) renameTerm(t formula.Term, names map[string]string) formula.Term {
	switch {
	case strings.HasPrefix(t.Sym, "φ"), strings.HasPrefix(t.Sym, "ω"):
		// a Skolem term is replaced as a whole, argument list included
		key := t.String()
		name, ok := names[key]
		if !ok {
			if strings.HasPrefix(t.Sym, "ω") {
				name = st.Parser.GetNewWorldName(false)
			} else {
				name = st.Parser.GetNewConstant()
			}
			names[key] = name
			st.surfaceNames.Add(name)
		}
		return formula.T(name)
	case strings.HasPrefix(t.Sym, "ξ"), strings.HasPrefix(t.Sym, "ζ"):
		name, ok := names[t.Sym]
		if !ok {
			if strings.HasPrefix(t.Sym, "ζ") {
				name = st.Parser.GetNewWorldName(false)
			} else {
				name = st.Parser.GetNewConstant()
			}
			names[t.Sym] = name
			st.surfaceNames.Add(name)
		}
		return formula.T(name)
	case len(t.Args) > 0:
		args := make([]formula.Term, len(t.Args))
		for i, a := range t.Args {
			args[i] = st.renameTerm(a, names)
		}
		return formula.Term{Sym: t.Sym, Args: args}
	}
	return t
}
