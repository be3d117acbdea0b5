package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli"

	"github.com/MarcoClaps/vrptw"
)

// formatter rewrites instance and solution files in place, collapsing
// numeric arrays onto one line. With --to the file is converted instead.
func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "formatter"
	app.Usage = "normalize or convert instance and solution files"
	app.ArgsUsage = "FILE..."
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "to", Usage: "Convert to json or yaml, writing next to the input"},
	}
	app.Action = func(c *cli.Context) error {
		if c.NArg() == 0 {
			return cli.NewExitError("No arguments passed!", 1)
		}
		for _, path := range c.Args() {
			if err := format(path, vrptw.Format(c.String("to"))); err != nil {
				log.Printf("At %s: %s\n", path, err.Error())
			}
		}
		return nil
	}
	return app
}

// format decodes instances and solutions into their own types, so fields
// keep their order and integers their precision. Other JSON documents are
// compacted as they are, with numbers kept verbatim.
func format(path string, to vrptw.Format) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	from := vrptw.FormatOf(path)
	target := path
	if to != "" && to != from {
		target = strings.TrimSuffix(path, filepath.Ext(path)) + "." + string(to)
	}

	doc, err := decode(data, from)
	if err != nil {
		return err
	}
	if _, generic := doc.(map[string]interface{}); generic && vrptw.FormatOf(target) != from {
		return fmt.Errorf("neither an instance nor a solution, cannot convert to %s", to)
	}
	out, err := vrptw.Marshal(doc, vrptw.FormatOf(target))
	if err != nil {
		return err
	}
	if err := os.WriteFile(target, out, 0644); err != nil {
		return err
	}
	vrptw.Log(2, "Wrote %s", target)
	return nil
}

func decode(data []byte, from vrptw.Format) (interface{}, error) {
	var keys map[string]interface{}
	if err := vrptw.Unmarshal(data, from, &keys); err != nil {
		return nil, err
	}
	var doc interface{}
	switch {
	case keys["routes"] != nil || keys["status"] != nil:
		doc = &vrptw.Solution{}
	case keys["customers"] != nil:
		doc = &vrptw.Instance{}
	case from == vrptw.FormatJSON:
		generic := map[string]interface{}{}
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&generic); err != nil {
			return nil, err
		}
		return generic, nil
	default:
		return keys, nil
	}
	if err := vrptw.Unmarshal(data, from, doc); err != nil {
		return nil, err
	}
	return doc, nil
}
