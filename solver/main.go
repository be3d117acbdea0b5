package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/urfave/cli"

	"github.com/MarcoClaps/vrptw"
)

func main() {
	app := cli.NewApp()
	app.Name = "solver"
	app.Usage = "solve VRPTW instances with the HiGHS MIP solver"
	app.ArgsUsage = "INSTANCE..."
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "config", Usage: "YAML config file"},
		cli.Float64Flag{Name: "time", Usage: "Time limit in seconds (default from config)"},
		cli.Float64Flag{Name: "gap", Value: -1, Usage: "Relative MIP gap (default from config)"},
		cli.IntFlag{Name: "threads", Usage: "Solver threads, 0 lets HiGHS decide"},
		cli.IntFlag{Name: "seed", Usage: "Solver random seed"},
		cli.StringFlag{Name: "lp", Usage: "Write the model to this .lp or .mps file before solving"},
		cli.StringFlag{Name: "output", Usage: "Path to the solution file. By default <input>_sol.<ext>"},
		cli.BoolFlag{Name: "log", Usage: "Show the HiGHS log"},
		cli.BoolFlag{Name: "quiet", Usage: "Do not print the route summary"},
		cli.IntFlag{Name: "v", Value: vrptw.Verbosity, Usage: "Verbosity 1-3"},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	vrptw.Verbosity = c.Int("v")
	if c.NArg() == 0 {
		return cli.NewExitError("No instance given!", 1)
	}
	if c.NArg() > 1 && (c.String("output") != "" || c.String("lp") != "") {
		return cli.NewExitError("--output and --lp take a single instance", 1)
	}
	cfg, err := vrptw.LoadConfig(c.String("config"))
	if err != nil {
		return err
	}
	opts := vrptw.DefaultSolveOptions(cfg)
	if t := c.Float64("time"); t > 0 {
		opts.TimeLimit = time.Duration(t * float64(time.Second))
	}
	if g := c.Float64("gap"); g >= 0 {
		opts.Gap = g
	}
	if th := c.Int("threads"); th > 0 {
		opts.Threads = th
	}
	opts.Seed = c.Int("seed")
	opts.Output = c.Bool("log")
	opts.ModelFile = c.String("lp")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	engine := vrptw.NewEngine(cfg)
	failed := 0
	for _, input := range c.Args() {
		if err := solveFile(ctx, engine, input, c.String("output"), opts, c.Bool("quiet")); err != nil {
			log.Printf("At %s: %s\n", input, err.Error())
			failed++
		}
		if ctx.Err() != nil {
			break
		}
	}
	if failed > 0 {
		return cli.NewExitError(fmt.Sprintf("%d of %d instance(s) failed", failed, c.NArg()), 1)
	}
	return nil
}

func solveFile(ctx context.Context, engine *vrptw.Engine, input, output string, opts vrptw.SolveOptions, quiet bool) error {
	inst, err := vrptw.ReadInstance(input)
	if err != nil {
		return err
	}
	sol, err := engine.Solve(ctx, inst, opts)
	if err != nil {
		var se *vrptw.SubtourError
		if errors.As(err, &se) {
			vrptw.Log(1, "Detached cycles %v, duplicates %v", se.Cycles, se.Duplicate)
		}
		return err
	}
	if output == "" {
		output = vrptw.SolutionPath(input)
	}
	if err := vrptw.WriteSolution(output, sol); err != nil {
		return err
	}
	vrptw.Log(2, "Solution written to %s", output)
	if quiet {
		return nil
	}
	sum, err := vrptw.Summarize(inst, sol, engine.Config.Tolerance)
	if err != nil {
		return err
	}
	fmt.Println(sum.String())
	return nil
}
