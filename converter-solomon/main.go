package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli"

	"github.com/MarcoClaps/vrptw"
)

// converter-solomon turns Solomon benchmark files (C101.txt, R201.txt, ...)
// into instance files, optionally truncated to the first n customers.
func main() {
	var sizes vrptw.ArrayIntFlags
	app := cli.NewApp()
	app.Name = "converter-solomon"
	app.Usage = "convert Solomon benchmark instances"
	app.ArgsUsage = "FILE..."
	app.Flags = []cli.Flag{
		cli.GenericFlag{Name: "n", Value: &sizes, Usage: "List of customer counts to keep, e.g. 25,50 (default: all)"},
		cli.IntFlag{Name: "precision", Value: vrptw.DefaultConfig().CostPrecision, Usage: "Decimals of the cost matrix"},
		cli.StringFlag{Name: "dir", Value: ".", Usage: "Output directory"},
		cli.StringFlag{Name: "format", Value: "json", Usage: "json or yaml"},
	}
	app.Action = func(c *cli.Context) error {
		if c.NArg() == 0 {
			return cli.NewExitError("No arguments passed!", 1)
		}
		if len(sizes) == 0 {
			sizes = vrptw.ArrayIntFlags{0}
		}
		for _, path := range c.Args() {
			for _, n := range sizes {
				if err := convert(path, n, c.Int("precision"), c.String("dir"), c.String("format")); err != nil {
					log.Printf("At %s: %s\n", path, err.Error())
				}
			}
		}
		return nil
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func convert(path string, limit, precision int, dir, format string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	inst, err := vrptw.ParseSolomon(f, limit, precision)
	if err != nil {
		return err
	}
	name := strings.ReplaceAll(inst.Name, ".", "_")
	out := filepath.Join(dir, fmt.Sprintf("%s.%s", name, format))
	if err := vrptw.WriteInstance(out, inst); err != nil {
		return err
	}
	vrptw.Log(2, "Converted %s (%d customers) to %s", path, len(inst.Customers), out)
	return nil
}
