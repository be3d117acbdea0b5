package vrptw

import (
	"context"

	"github.com/MarcoClaps/vrptw/metrics"
)

// Request is one of GenerateRequest, SolveRequest, SummarizeRequest,
// VisualizeRequest, StatsRequest or DescribeRequest.
type Request interface {
	Kind() string
	isRequest()
}

type GenerateRequest struct {
	Params GenParams `json:"params"`
}

type SolveRequest struct {
	Instance *Instance    `json:"instance"`
	Options  SolveOptions `json:"options"`
}

type SummarizeRequest struct {
	Instance *Instance `json:"instance"`
	Solution *Solution `json:"solution"`
}

type VisualizeRequest struct {
	Instance *Instance `json:"instance"`
	Solution *Solution `json:"solution,omitempty"`
}

// StatsRequest asks for the model statistics of an instance without solving it.
type StatsRequest struct {
	Instance *Instance `json:"instance"`
}

// DescribeRequest asks for the vertex table of an instance.
type DescribeRequest struct {
	Instance *Instance `json:"instance"`
}

func (GenerateRequest) Kind() string  { return "generate" }
func (SolveRequest) Kind() string     { return "solve" }
func (SummarizeRequest) Kind() string { return "summarize" }
func (VisualizeRequest) Kind() string { return "visualize" }
func (StatsRequest) Kind() string     { return "stats" }
func (DescribeRequest) Kind() string  { return "describe" }

func (GenerateRequest) isRequest()  {}
func (SolveRequest) isRequest()     {}
func (SummarizeRequest) isRequest() {}
func (VisualizeRequest) isRequest() {}
func (StatsRequest) isRequest()     {}
func (DescribeRequest) isRequest()  {}

// Response carries the result of a request; only the field matching the
// request kind is set.
type Response struct {
	Kind     string          `json:"kind"`
	Instance *Instance       `json:"instance,omitempty"`
	Solution *Solution       `json:"solution,omitempty"`
	Summary  *Summary        `json:"summary,omitempty"`
	GeoJSON  *GeoJSONFormat  `json:"geojson,omitempty"`
	Stats    *Stats          `json:"stats,omitempty"`
	Report   *InstanceReport `json:"report,omitempty"`
}

// Dispatch runs req.
func (e *Engine) Dispatch(ctx context.Context, req Request) (resp *Response, err error) {
	if req == nil {
		return nil, invalidParam("empty request")
	}
	defer func() {
		result := "ok"
		if err != nil {
			result = "error"
		}
		metrics.Requests.WithLabelValues(req.Kind(), result).Inc()
	}()

	resp = &Response{Kind: req.Kind()}
	switch r := req.(type) {
	case GenerateRequest:
		resp.Instance, err = Generate(r.Params, e.Config)
	case SolveRequest:
		resp.Solution, err = e.Solve(ctx, r.Instance, r.Options)
	case SummarizeRequest:
		resp.Summary, err = Summarize(r.Instance, r.Solution, e.Config.Tolerance)
	case VisualizeRequest:
		resp.GeoJSON, err = Visualize(r.Instance, r.Solution)
	case StatsRequest:
		if r.Instance == nil {
			return nil, invalidParam("no instance given")
		}
		var f *Formulation
		if f, err = Build(r.Instance); err == nil {
			st := f.Stats()
			resp.Stats = &st
		}
	case DescribeRequest:
		if r.Instance == nil {
			return nil, invalidParam("no instance given")
		}
		if err = r.Instance.Validate(); err == nil {
			resp.Report = r.Instance.Report()
		}
	default:
		return nil, invalidParam("unknown request %T", req)
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}
