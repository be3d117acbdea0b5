package main

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/urfave/cli"

	"github.com/MarcoClaps/vrptw"
)

var header = []string{"Name", "Status", "Time", "Objective", "Bound", "TotalCost", "Gap", "Customers", "VehiclesUsed", "Vehicles", "Consistent", "Comment"}

func main() {
	app := cli.NewApp()
	app.Name = "analyzer"
	app.Usage = "tabulate the solutions found next to the instances of a directory as CSV"
	app.ArgsUsage = "DIR"
	app.Flags = []cli.Flag{
		cli.Float64Flag{Name: "tol", Value: vrptw.DefaultConfig().Tolerance, Usage: "Objective cross-check tolerance"},
	}
	app.Action = func(c *cli.Context) error {
		if c.NArg() < 1 {
			return cli.NewExitError("No arguments passed!", 1)
		}
		dirName := c.Args().First()
		entries, err := os.ReadDir(dirName)
		if err != nil {
			return fmt.Errorf("couldn't open directory %s: %w", dirName, err)
		}
		var names []string
		for _, e := range entries {
			ext := filepath.Ext(e.Name())
			base := strings.TrimSuffix(e.Name(), ext)
			if e.IsDir() || strings.HasSuffix(base, "_sol") {
				continue
			}
			if ext == ".json" || ext == ".yaml" || ext == ".yml" {
				names = append(names, e.Name())
			}
		}
		sort.Strings(names)

		w := csv.NewWriter(os.Stdout)
		if err := w.Write(header); err != nil {
			return err
		}
		for _, name := range names {
			row, err := analyze(filepath.Join(dirName, name), c.Float64("tol"))
			if err != nil {
				log.Printf("At %s: %s\n", name, err.Error())
				continue
			}
			if row == nil {
				continue
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		w.Flush()
		return w.Error()
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// analyze returns nil when the instance has not been solved yet.
func analyze(path string, tol float64) ([]string, error) {
	solPath := vrptw.SolutionPath(path)
	if _, err := os.Stat(solPath); os.IsNotExist(err) {
		vrptw.Log(3, "No solution for %s", path)
		return nil, nil
	}
	inst, err := vrptw.ReadInstance(path)
	if err != nil {
		return nil, err
	}
	sol, err := vrptw.ReadSolution(solPath)
	if err != nil {
		return nil, err
	}
	comment := sol.Comment
	consistent := "true"
	sum, err := vrptw.Summarize(inst, sol, tol)
	if err != nil {
		consistent = "false"
		comment += fmt.Sprintf(" ANALYZER: Error = %s", err.Error())
	} else if !sum.Consistent {
		consistent = "false"
		comment += fmt.Sprintf(" ANALYZER: objective differs from route costs by %.4f", sum.Discrepancy)
	}
	return []string{
		inst.Name,
		string(sol.Status),
		sol.Time,
		fmt.Sprintf("%.4f", sol.Objective),
		fmt.Sprintf("%.4f", sol.Bound),
		fmt.Sprintf("%.4f", sol.TotalCost),
		fmt.Sprintf("%.4f", 100*sol.Gap),
		fmt.Sprint(len(inst.Customers)),
		fmt.Sprint(len(sol.Routes)),
		fmt.Sprint(inst.Fleet.Vehicles),
		consistent,
		strings.TrimSpace(comment),
	}, nil
}
