package main

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"treeproof/model"
	"treeproof/parser"
	"treeproof/prover"
	"treeproof/tableau"
)

type Request struct {
	Formula string `json:"formula"`
	S5      bool   `json:"s5"`
}

type Response struct {
	Stage        string `json:"stage"`
	Proof        string `json:"proof,omitempty"`
	CounterModel string `json:"countermodel,omitempty"`
	Error        string `json:"error,omitempty"`
}

const (
	ProvedStage       = "proved"
	CounterModelStage = "countermodel"
	GaveUpStage       = "gaveup"
	ParseErrorStage   = "parse-error"
)

func prove(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")

	req, err := getRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p := parser.New()
	f, err := p.ParseFormula(req.Formula)
	if err != nil {
		respond(w, Response{Stage: ParseErrorStage, Error: err.Error()})
		return
	}

	fv := prover.Prove(f, p, prover.Options{S5: req.S5})
	st := tableau.NewSentenceTree(fv)
	if fv.Closed() {
		if p.IsModal {
			st.Modalize()
		}
		respond(w, Response{Stage: ProvedStage, Proof: st.String()})
		return
	}

	if m := st.GetCounterModel(); m != nil {
		respond(w, Response{Stage: CounterModelStage, CounterModel: m.String()})
		return
	}
	mf := model.NewModelfinder(p)
	if m := mf.Find(fv.InitFormulasNonModal); m != nil {
		respond(w, Response{Stage: CounterModelStage, CounterModel: m.String()})
		return
	}
	respond(w, Response{Stage: GaveUpStage})
}

func respond(w http.ResponseWriter, resp Response) {
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		panic(err)
	}
}

func getRequest(r *http.Request) (Request, error) {
	bodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("Error reading request body: %v", err)
		return Request{}, err
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			log.Printf("Error closing body: %v", err)
		}
	}()
	var req Request
	if err := json.Unmarshal(bodyBytes, &req); err != nil {
		return Request{}, err
	}
	return req, nil
}

func main() {
	http.HandleFunc("/prove", prove)
	_ = http.ListenAndServe(":8080", nil)
}
