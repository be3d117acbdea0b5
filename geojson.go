package vrptw

// GeoJSONFormat is the payload handed to map renderers: one Point per
// vertex and one LineString per route, in planar instance coordinates.
type GeoJSONFormat struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

type Feature struct {
	Type       string     `json:"type"`
	Geometry   Geometry   `json:"geometry"`
	Properties Properties `json:"properties"`
}

// Geometry holds [x, y] for a Point and [][x, y] for a LineString.
type Geometry struct {
	Type        string      `json:"type"`
	Coordinates interface{} `json:"coordinates"`
}

type Properties struct {
	Type        string      `json:"type"`
	Information interface{} `json:"information"` // VertexFormat or RouteFormat
}

type VertexFormat struct {
	ID         int        `json:"id"`
	Demand     int        `json:"demand"`
	TimeWindow TimeWindow `json:"time_window"`
	Start      *float64   `json:"start,omitempty"`
	Vehicle    int        `json:"vehicle,omitempty"`
}

type RouteFormat struct {
	Vehicle  int     `json:"vehicle"`
	Sequence []int   `json:"sequence"`
	Cost     float64 `json:"cost"`
	Load     int     `json:"load"`
	Duration float64 `json:"duration"`
}

// Visualize renders inst and, when it has routes, sol. sol may be nil.
func Visualize(inst *Instance, sol *Solution) (*GeoJSONFormat, error) {
	if inst == nil {
		return nil, invalidParam("nothing to visualize")
	}
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	N := inst.Vertices()
	served := make([]*Stop, N)
	vehicle := make([]int, N)
	var routes []Route
	if sol != nil {
		routes = sol.Routes
	}
	for _, r := range routes {
		for k := range r.Stops {
			st := r.Stops[k]
			if st.Customer < 1 || st.Customer >= N {
				return nil, invalidParam("route %d visits unknown customer %d", r.Vehicle, st.Customer)
			}
			served[st.Customer] = &st
			vehicle[st.Customer] = r.Vehicle
		}
	}

	g := &GeoJSONFormat{Type: "FeatureCollection"}
	for v := 0; v < N; v++ {
		c := inst.Coordinates(v)
		kind := "customer"
		if v == 0 {
			kind = "depot"
		}
		info := VertexFormat{ID: v, Demand: inst.Demand(v), TimeWindow: inst.Window(v), Vehicle: vehicle[v]}
		if st := served[v]; st != nil {
			start := st.Start
			info.Start = &start
		}
		g.Features = append(g.Features, Feature{
			Type:       "Feature",
			Geometry:   Geometry{Type: "Point", Coordinates: []float64{c[0], c[1]}},
			Properties: Properties{Type: kind, Information: info},
		})
	}
	for _, r := range routes {
		seq := r.Sequence()
		line := make([][]float64, 0, len(seq)+2)
		depot := inst.Coordinates(0)
		line = append(line, []float64{depot[0], depot[1]})
		for _, v := range seq {
			c := inst.Coordinates(v)
			line = append(line, []float64{c[0], c[1]})
		}
		line = append(line, []float64{depot[0], depot[1]})
		g.Features = append(g.Features, Feature{
			Type:     "Feature",
			Geometry: Geometry{Type: "LineString", Coordinates: line},
			Properties: Properties{Type: "route", Information: RouteFormat{
				Vehicle:  r.Vehicle,
				Sequence: seq,
				Cost:     r.Cost,
				Load:     r.Load,
				Duration: r.Duration,
			}},
		})
	}
	return g, nil
}
