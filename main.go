package main

import (
	"flag"
	"fmt"
	"os"

	"treeproof/model"
	"treeproof/parser"
	"treeproof/prover"
	"treeproof/tableau"
)

func main() {
	s5 := flag.Bool("s5", false, "collapse accessibility (S5)")
	modalize := flag.Bool("modal", true, "display the proof in modal notation when the input is modal")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: treeproof [-s5] '<formula>'")
		os.Exit(2)
	}

	p := parser.New()
	f, err := p.ParseFormula(flag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, "parse error:", err)
		os.Exit(1)
	}

	fv := prover.Prove(f, p, prover.Options{S5: *s5})
	st := tableau.NewSentenceTree(fv)
	if fv.Closed() {
		if p.IsModal && *modalize {
			st.Modalize()
		}
		fmt.Println("Proved:")
		fmt.Print(st.String())
		return
	}

	if m := st.GetCounterModel(); m != nil {
		fmt.Println("Countermodel:")
		fmt.Print(m.String())
		return
	}
	mf := model.NewModelfinder(p)
	if m := mf.Find(fv.InitFormulasNonModal); m != nil {
		fmt.Println("Countermodel (modelfinder):")
		fmt.Print(m.String())
		return
	}
	fmt.Println("Gave up: no proof found within the step limit.")
}
