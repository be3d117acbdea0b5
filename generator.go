package vrptw

import (
	"fmt"
	"math"
	"math/rand"
)

// Time window policies of the generator.
const (
	WindowRandom  = "random"
	WindowFixed   = "fixed"
	WindowHorizon = "horizon"
)

// Service time policies of the generator.
const (
	ServiceRandom = "random"
	ServiceFixed  = "fixed"
	ServiceNone   = "none"
)

// GenParams controls Generate. Integer ranges are inclusive.
type GenParams struct {
	Name      string `json:"name" yaml:"name"`
	Customers int    `json:"customers" yaml:"customers"`
	Vehicles  int    `json:"vehicles" yaml:"vehicles"`
	Capacity  int    `json:"capacity" yaml:"capacity"`

	XMax float64 `json:"x_max" yaml:"x_max"`
	YMax float64 `json:"y_max" yaml:"y_max"`

	DemandMin int `json:"demand_min" yaml:"demand_min"`
	DemandMax int `json:"demand_max" yaml:"demand_max"`

	WindowPolicy string  `json:"window_policy" yaml:"window_policy"`
	EarliestMax  float64 `json:"earliest_max" yaml:"earliest_max"`
	WidthMin     float64 `json:"width_min" yaml:"width_min"`
	WidthMax     float64 `json:"width_max" yaml:"width_max"`

	ServicePolicy string  `json:"service_policy" yaml:"service_policy"`
	ServiceMin    float64 `json:"service_min" yaml:"service_min"`
	ServiceMax    float64 `json:"service_max" yaml:"service_max"`

	Horizon   float64 `json:"horizon" yaml:"horizon"`
	Precision int     `json:"precision" yaml:"precision"`
	Seed      int64   `json:"seed" yaml:"seed"`
}

// DefaultGenParams returns the classic 9 customer, 3 vehicle instance
// family on a 100x100 square with the depot in the centre.
func DefaultGenParams(cfg Config) GenParams {
	return GenParams{
		Name:          "vrptw",
		Customers:     cfg.DefaultCustomers,
		Vehicles:      cfg.DefaultVehicles,
		Capacity:      cfg.DefaultCapacity,
		XMax:          100,
		YMax:          100,
		DemandMin:     1,
		DemandMax:     10,
		WindowPolicy:  WindowRandom,
		EarliestMax:   cfg.Horizon / 2,
		WidthMin:      cfg.WindowWidthMin,
		WidthMax:      cfg.WindowWidthMax,
		ServicePolicy: ServiceRandom,
		ServiceMin:    5,
		ServiceMax:    20,
		Horizon:       cfg.Horizon,
		Precision:     cfg.CostPrecision,
		Seed:          42,
	}
}

func (p GenParams) validate(cfg Config) error {
	switch {
	case p.Customers < 1 || p.Customers > cfg.MaxCustomers:
		return invalidParam("customers must be in [1, %d], got %d", cfg.MaxCustomers, p.Customers)
	case p.Vehicles < 1 || p.Vehicles > cfg.MaxVehicles:
		return invalidParam("vehicles must be in [1, %d], got %d", cfg.MaxVehicles, p.Vehicles)
	case p.Capacity < 1 || p.Capacity > cfg.MaxCapacity:
		return invalidParam("capacity must be in [1, %d], got %d", cfg.MaxCapacity, p.Capacity)
	case p.XMax <= 0 || p.YMax <= 0:
		return invalidParam("coordinate bounds must be positive, got %gx%g", p.XMax, p.YMax)
	case p.DemandMin < 0 || p.DemandMax < p.DemandMin:
		return invalidParam("demand range [%d, %d] is invalid", p.DemandMin, p.DemandMax)
	case p.Horizon <= 0:
		return invalidParam("horizon must be positive, got %g", p.Horizon)
	case p.Precision < 0 || p.Precision > 10:
		return invalidParam("precision must be in [0, 10], got %d", p.Precision)
	case p.Seed < 0:
		return invalidParam("seed must be >= 0, got %d", p.Seed)
	}
	switch p.WindowPolicy {
	case WindowRandom, WindowFixed:
		if p.WidthMin <= 0 || p.WidthMax < p.WidthMin {
			return invalidParam("window width range [%g, %g] is invalid", p.WidthMin, p.WidthMax)
		}
		if p.EarliestMax < 0 || p.EarliestMax >= p.Horizon {
			return invalidParam("earliest_max must be in [0, %g), got %g", p.Horizon, p.EarliestMax)
		}
	case WindowHorizon:
	default:
		return invalidParam("unknown window policy %q", p.WindowPolicy)
	}
	switch p.ServicePolicy {
	case ServiceRandom, ServiceFixed:
		if p.ServiceMin < 0 || p.ServiceMax < p.ServiceMin {
			return invalidParam("service range [%g, %g] is invalid", p.ServiceMin, p.ServiceMax)
		}
	case ServiceNone:
	default:
		return invalidParam("unknown service policy %q", p.ServicePolicy)
	}
	return nil
}

// Generate draws a random instance. The result only depends on p: two calls
// with the same parameters and seed return equal instances.
func Generate(p GenParams, cfg Config) (*Instance, error) {
	if err := p.validate(cfg); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(p.Seed))
	n := p.Customers

	coordinates := make([][2]float64, n+1)
	coordinates[0] = [2]float64{p.XMax / 2, p.YMax / 2}
	for node := 1; node <= n; node++ {
		coordinates[node] = [2]float64{
			RoundTo(rng.Float64()*p.XMax, p.Precision),
			RoundTo(rng.Float64()*p.YMax, p.Precision),
		}
	}
	costs := CalcEdgeDist(coordinates, p.Precision)

	customers := make([]Customer, n)
	for k := range customers {
		node := k + 1
		demand := p.DemandMin + rng.Intn(p.DemandMax-p.DemandMin+1)
		if demand > p.Capacity {
			demand = p.Capacity
		}
		customers[k] = Customer{
			ID:          node,
			Coordinates: coordinates[node],
			Demand:      demand,
			TimeWindow:  p.drawWindow(rng),
			ServiceTime: p.drawService(rng),
		}
	}

	inst := &Instance{
		Name:       fmt.Sprintf("%s_%d_%d_%d", p.Name, n, p.Vehicles, p.Seed),
		Comment:    fmt.Sprintf("%s instance with %d customers, %d vehicles of capacity %d, %s windows, seed %d", p.Name, n, p.Vehicles, p.Capacity, p.WindowPolicy, p.Seed),
		Depot:      Depot{Coordinates: coordinates[0], TimeWindow: TimeWindow{Earliest: 0, Latest: p.Horizon}},
		Customers:  customers,
		Fleet:      Fleet{Vehicles: p.Vehicles, Capacity: p.Capacity},
		CostMatrix: costs,
		Seed:       p.Seed,
	}
	if total, fleet := inst.TotalDemand(), p.Vehicles*p.Capacity; total > fleet {
		Log(2, "Total demand (%d) > total capacity (%d) - instance %s may be infeasible", total, fleet, inst.Name)
	}
	return inst, nil
}

func (p GenParams) drawWindow(rng *rand.Rand) TimeWindow {
	switch p.WindowPolicy {
	case WindowHorizon:
		return TimeWindow{Earliest: 0, Latest: p.Horizon}
	case WindowFixed:
		early := math.Floor(rng.Float64() * (p.EarliestMax + 1))
		return clampWindow(early, early+p.WidthMax, p.Horizon)
	default:
		early := math.Floor(rng.Float64() * (p.EarliestMax + 1))
		width := math.Min(p.WidthMin+math.Floor(rng.Float64()*(p.WidthMax-p.WidthMin+1)), p.WidthMax)
		return clampWindow(early, early+width, p.Horizon)
	}
}

// clampWindow keeps the window inside [0, horizon] with earliest < latest.
func clampWindow(early, late, horizon float64) TimeWindow {
	if late > horizon {
		late = horizon
	}
	if early >= late {
		early = math.Max(0, late-1)
	}
	return TimeWindow{Earliest: early, Latest: late}
}

func (p GenParams) drawService(rng *rand.Rand) float64 {
	switch p.ServicePolicy {
	case ServiceNone:
		return 0
	case ServiceFixed:
		return p.ServiceMin
	default:
		return math.Min(p.ServiceMin+math.Floor(rng.Float64()*(p.ServiceMax-p.ServiceMin+1)), p.ServiceMax)
	}
}
