package vrptw

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is a serialization format of instance and solution files.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatOf picks the format by file extension; anything but .yaml/.yml is JSON.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Marshal encodes v in the given format. JSON is tab indented with numeric
// arrays kept on one line.
func Marshal(v interface{}, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(v)
	case FormatJSON, "":
		data, err := json.MarshalIndent(v, "", "\t")
		if err != nil {
			return nil, err
		}
		return []byte(SanitizeJsonArrayLineBreaks(string(data))), nil
	default:
		return nil, invalidParam("unknown format %q", format)
	}
}

func Unmarshal(data []byte, format Format, v interface{}) error {
	switch format {
	case FormatYAML:
		return yaml.Unmarshal(data, v)
	case FormatJSON, "":
		return json.Unmarshal(data, v)
	default:
		return invalidParam("unknown format %q", format)
	}
}

func readFile(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := Unmarshal(data, FormatOf(path), v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func writeFile(path string, v interface{}) error {
	data, err := Marshal(v, FormatOf(path))
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadInstance loads and validates an instance file.
func ReadInstance(path string) (*Instance, error) {
	inst := &Instance{}
	if err := readFile(path, inst); err != nil {
		return nil, err
	}
	if err := inst.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return inst, nil
}

func WriteInstance(path string, inst *Instance) error {
	return writeFile(path, inst)
}

func ReadSolution(path string) (*Solution, error) {
	sol := &Solution{}
	if err := readFile(path, sol); err != nil {
		return nil, err
	}
	return sol, nil
}

func WriteSolution(path string, sol *Solution) error {
	return writeFile(path, sol)
}

// SolutionPath returns the file a solution of the instance at path is
// written to: foo.json -> foo_sol.json.
func SolutionPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_sol" + ext
}
