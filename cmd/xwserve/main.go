// Xwserve exposes grid filling over HTTP: POST a grid file body plus a
// word list (inline or a BigQuery scope), get back up to maxSolutions
// filled grids.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"fortio.org/log"
	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"
	"xwfill.io/xwfill/board"
	"xwfill.io/xwfill/words"
	"xwfill.io/xwfill/xw"
)

type fillRequest struct {
	Grid         string   `json:"grid"`  // grid file contents
	Words        []string `json:"words"` // inline word list
	WordScope    string   `json:"wordScope"`
	BQProject    string   `json:"bqProject"`
	BQTable      string   `json:"bqTable"`
	AllowDups    bool     `json:"allowDups"`
	Backjump     bool     `json:"backjump"`
	Prune        bool     `json:"prune"`
	Reverse      bool     `json:"reverse"`
	Seed         uint64   `json:"seed"`
	MaxSolutions int      `json:"maxSolutions"`
}

type fillResponse struct {
	Success   bool     `json:"success"`
	Solutions []string `json:"solutions"`
	Steps     int64    `json:"nsteps"`
	Error     string   `json:"error,omitempty"`
}

func execute(ctx context.Context, req fillRequest) ([]string, int64, error) {
	if req.MaxSolutions <= 0 {
		req.MaxSolutions = 1
	}
	if req.MaxSolutions > 10 {
		return nil, 0, fmt.Errorf("maxSolutions must be at most 10")
	}
	seed := req.Seed
	if seed == 0 {
		seed = 1
	}
	w := words.New(seed)
	switch {
	case req.WordScope != "":
		if err := w.ReadBigQuery(ctx, req.BQProject, req.BQTable, req.WordScope); err != nil {
			return nil, 0, err
		}
	case len(req.Words) > 0:
		if err := w.ReadFrom(strings.NewReader(strings.ToLower(strings.Join(req.Words, "\n"))), req.Reverse); err != nil {
			return nil, 0, err
		}
	default:
		return nil, 0, fmt.Errorf("words or wordScope must be given")
	}
	w.Shuffle()

	sctx := xw.NewContext(w, xw.Options{AllowDups: req.AllowDups, Backjump: req.Backjump, Prune: req.Prune})
	g := xw.NewGrid(sctx)
	b, err := board.Parse(strings.NewReader(req.Grid))
	if err != nil {
		return nil, 0, err
	}
	if err := b.Build(g); err != nil {
		return nil, 0, err
	}
	g.Prepare()

	budget := time.Minute
	if deadline, ok := ctx.Deadline(); ok {
		budget = time.Until(deadline) - 5*time.Second
		if budget < time.Second {
			budget = time.Second
		}
	}
	var solutions []string
	ctrl := &xw.Controller{
		StepPeriod: 10000,
		MaxTime:    budget.Seconds(),
		OnSolution: func(*xw.Grid) xw.Action {
			var sb strings.Builder
			b.Render(&sb)
			solutions = append(solutions, sb.String())
			if len(solutions) >= req.MaxSolutions {
				return xw.Stop
			}
			return xw.Continue
		},
	}
	res := g.FindSolutions(ctrl)
	log.Infof("fill: %s, %d solution(s), %d steps", res.Status, len(solutions), res.Steps)
	return solutions, res.Steps, nil
}

func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Content-Type", "application/json")
}

func fillGrid(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		fmt.Fprintf(w, `{"success": false, "error": "Method %s not allowed"}`, r.Method)
		return
	}
	var req fillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(fillResponse{Error: fmt.Sprintf("Invalid JSON: %v", err)})
		return
	}
	solutions, steps, err := execute(r.Context(), req)
	resp := fillResponse{
		Success:   err == nil,
		Solutions: solutions,
		Steps:     steps,
	}
	if err != nil {
		resp.Error = err.Error()
	} else if len(solutions) == 0 {
		resp.Error = "no filling exists for this grid and word list"
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Errf("encoding response: %v", err)
	}
}

func main() {
	funcframework.RegisterHTTPFunction("/fill", fillGrid)
	port := "8080"
	if envPort := os.Getenv("PORT"); envPort != "" {
		port = envPort
	}
	hostname := ""
	if os.Getenv("LOCAL_ONLY") == "true" {
		hostname = "127.0.0.1"
	}
	if err := funcframework.StartHostPort(hostname, port); err != nil {
		log.Fatalf("funcframework.StartHostPort: %v", err)
	}
}
