package api

import (
	"net/http"
	"time"

	"github.com/MarcoClaps/vrptw"
)

// GenerateHandler draws an instance. Fields missing from the body keep
// their configured defaults.
func (s *Server) GenerateHandler(w http.ResponseWriter, r *http.Request) {
	params := vrptw.DefaultGenParams(s.Engine.Config)
	if err := decode(r, &params); err != nil {
		writeError(w, r, err)
		return
	}
	resp, err := s.Engine.Dispatch(r.Context(), vrptw.GenerateRequest{Params: params})
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := map[string]any{"instance": resp.Instance}
	if s.Store != nil {
		id, err := s.Store.SaveInstance(r.Context(), resp.Instance)
		if err != nil {
			writeError(w, r, err)
			return
		}
		out["instance_id"] = id
	}
	writeJSON(w, http.StatusOK, out)
}

type solveBody struct {
	Instance   *vrptw.Instance `json:"instance,omitempty"`
	InstanceID string          `json:"instance_id,omitempty"`
	// TimeLimit is in seconds.
	TimeLimit float64 `json:"time_limit,omitempty"`
	Gap       float64 `json:"gap,omitempty"`
	Threads   int     `json:"threads,omitempty"`
	Seed      int     `json:"seed,omitempty"`
}

// SolveHandler solves an inline instance or one archived in the store.
// INFEASIBLE is a regular 200 answer; only ERROR maps to a problem.
func (s *Server) SolveHandler(w http.ResponseWriter, r *http.Request) {
	var body solveBody
	if err := decode(r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	inst, id := body.Instance, body.InstanceID
	switch {
	case inst == nil && id == "":
		writeProblem(w, http.StatusBadRequest, "Invalid Request", "instance or instance_id is required", r.URL.Path)
		return
	case inst == nil && s.Store == nil:
		writeProblem(w, http.StatusBadRequest, "Invalid Request", "no store configured, send the instance inline", r.URL.Path)
		return
	case inst == nil:
		var err error
		if inst, err = s.Store.GetInstance(r.Context(), id); err != nil {
			writeError(w, r, err)
			return
		}
	}

	opts := vrptw.DefaultSolveOptions(s.Engine.Config)
	if body.TimeLimit > 0 {
		opts.TimeLimit = time.Duration(body.TimeLimit * float64(time.Second))
	}
	if body.Gap > 0 {
		opts.Gap = body.Gap
	}
	if body.Threads > 0 {
		opts.Threads = body.Threads
	}
	opts.Seed = body.Seed

	resp, err := s.Engine.Dispatch(r.Context(), vrptw.SolveRequest{Instance: inst, Options: opts})
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := map[string]any{"solution": resp.Solution}
	if s.Store != nil {
		if id == "" {
			if id, err = s.Store.SaveInstance(r.Context(), inst); err != nil {
				writeError(w, r, err)
				return
			}
		}
		if err := s.Store.SaveSolution(r.Context(), id, resp.Solution); err != nil {
			writeError(w, r, err)
			return
		}
		out["instance_id"] = id
	}
	writeJSON(w, http.StatusOK, out)
}

type pairBody struct {
	Instance *vrptw.Instance `json:"instance"`
	Solution *vrptw.Solution `json:"solution"`
}

func (s *Server) SummarizeHandler(w http.ResponseWriter, r *http.Request) {
	var body pairBody
	if err := decode(r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	resp, err := s.Engine.Dispatch(r.Context(), vrptw.SummarizeRequest{Instance: body.Instance, Solution: body.Solution})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"summary": resp.Summary, "report": resp.Summary.String()})
}

func (s *Server) VisualizeHandler(w http.ResponseWriter, r *http.Request) {
	var body pairBody
	if err := decode(r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	resp, err := s.Engine.Dispatch(r.Context(), vrptw.VisualizeRequest{Instance: body.Instance, Solution: body.Solution})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp.GeoJSON)
}

func (s *Server) StatsHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Instance *vrptw.Instance `json:"instance"`
	}
	if err := decode(r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	resp, err := s.Engine.Dispatch(r.Context(), vrptw.StatsRequest{Instance: body.Instance})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp.Stats)
}

// DescribeHandler returns the vertex table of an instance, as JSON and as
// the plain text report.
func (s *Server) DescribeHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Instance *vrptw.Instance `json:"instance"`
	}
	if err := decode(r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	resp, err := s.Engine.Dispatch(r.Context(), vrptw.DescribeRequest{Instance: body.Instance})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"instance": resp.Report, "report": resp.Report.String()})
}

func (s *Server) InstanceHandler(w http.ResponseWriter, r *http.Request) {
	if s.Store == nil {
		writeProblem(w, http.StatusNotFound, "Not Found", "no store configured", r.URL.Path)
		return
	}
	inst, err := s.Store.GetInstance(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, inst)
}

func (s *Server) InstanceSolutionsHandler(w http.ResponseWriter, r *http.Request) {
	if s.Store == nil {
		writeProblem(w, http.StatusNotFound, "Not Found", "no store configured", r.URL.Path)
		return
	}
	sols, err := s.Store.ListSolutions(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if sols == nil {
		sols = []*vrptw.Solution{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": sols})
}

func (s *Server) SolutionHandler(w http.ResponseWriter, r *http.Request) {
	if s.Store == nil {
		writeProblem(w, http.StatusNotFound, "Not Found", "no store configured", r.URL.Path)
		return
	}
	sol, err := s.Store.GetSolution(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sol)
}
