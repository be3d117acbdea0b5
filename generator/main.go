package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/urfave/cli"

	"github.com/MarcoClaps/vrptw"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	var (
		nodes    vrptw.ArrayIntFlags
		vehicles vrptw.ArrayIntFlags
		seeds    vrptw.ArrayInt64Flags
		demand   = vrptw.RangeFlag{Lo: 1, Hi: 10}
		width    vrptw.RangeFlag
		service  = vrptw.RangeFlag{Lo: 5, Hi: 20}
	)

	app := cli.NewApp()
	app.Name = "generator"
	app.Usage = "draw random VRPTW instances, one file per customers x vehicles x seed combination"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "config", Usage: "YAML config file"},
		cli.StringFlag{Name: "name", Value: "vrptw", Usage: "Name prefix for the instances"},
		cli.StringFlag{Name: "dir", Value: ".", Usage: "Output directory"},
		cli.StringFlag{Name: "format", Value: "json", Usage: "json or yaml"},
		cli.GenericFlag{Name: "n", Value: &nodes, Usage: "List of number of customers"},
		cli.GenericFlag{Name: "k", Value: &vehicles, Usage: "List of fleet sizes"},
		cli.GenericFlag{Name: "seed", Value: &seeds, Usage: "List of random seeds"},
		cli.IntFlag{Name: "capacity", Usage: "Vehicle capacity (default from config)"},
		cli.Float64Flag{Name: "x", Value: 100, Usage: "Max value on the x-axis"},
		cli.Float64Flag{Name: "y", Value: 100, Usage: "Max value on the y-axis"},
		cli.GenericFlag{Name: "demand", Value: &demand, Usage: "Demand range lo:hi"},
		cli.StringFlag{Name: "tw", Value: vrptw.WindowRandom, Usage: "Time window policy: random, fixed or horizon"},
		cli.GenericFlag{Name: "width", Value: &width, Usage: "Time window width range lo:hi (default from config)"},
		cli.StringFlag{Name: "service", Value: vrptw.ServiceRandom, Usage: "Service time policy: random, fixed or none"},
		cli.GenericFlag{Name: "service-time", Value: &service, Usage: "Service time range lo:hi"},
		cli.BoolFlag{Name: "report", Usage: "Print the vertex table of every generated instance"},
		cli.IntFlag{Name: "v", Value: vrptw.Verbosity, Usage: "Verbosity 1-3"},
	}
	app.Action = func(c *cli.Context) error {
		vrptw.Verbosity = c.Int("v")
		cfg, err := vrptw.LoadConfig(c.String("config"))
		if err != nil {
			return err
		}
		format := vrptw.Format(c.String("format"))
		if format != vrptw.FormatJSON && format != vrptw.FormatYAML {
			return fmt.Errorf("unknown format %q", format)
		}
		if len(nodes) == 0 {
			nodes = vrptw.ArrayIntFlags{cfg.DefaultCustomers}
		}
		if len(vehicles) == 0 {
			vehicles = vrptw.ArrayIntFlags{cfg.DefaultVehicles}
		}
		if len(seeds) == 0 {
			seeds = vrptw.ArrayInt64Flags{42}
		}
		if err := os.MkdirAll(c.String("dir"), 0755); err != nil {
			return err
		}

		params := vrptw.DefaultGenParams(cfg)
		params.XMax, params.YMax = c.Float64("x"), c.Float64("y")
		params.DemandMin, params.DemandMax = int(demand.Lo), int(demand.Hi)
		params.WindowPolicy = c.String("tw")
		if width != (vrptw.RangeFlag{}) {
			params.WidthMin, params.WidthMax = width.Lo, width.Hi
		}
		params.ServicePolicy = c.String("service")
		params.ServiceMin, params.ServiceMax = service.Lo, service.Hi
		if q := c.Int("capacity"); q > 0 {
			params.Capacity = q
		}

		count := 0
		for _, n := range nodes {
			for _, k := range vehicles {
				for _, seed := range seeds {
					p := params
					p.Customers, p.Vehicles, p.Seed = n, k, seed
					p.Name = c.String("name")
					inst, err := vrptw.Generate(p, cfg)
					if err != nil {
						return fmt.Errorf("%s n=%d k=%d seed=%d: %w", p.Name, n, k, seed, err)
					}
					path := filepath.Join(c.String("dir"), fmt.Sprintf("%s.%s", inst.Name, format))
					if err := vrptw.WriteInstance(path, inst); err != nil {
						return err
					}
					vrptw.Log(3, "Wrote %s", path)
					if c.Bool("report") {
						fmt.Println(inst.Report().String())
					}
					count++
				}
			}
		}
		vrptw.Log(2, "Generated %d instance(s) in %s", count, c.String("dir"))
		return nil
	}
	return app
}
