package vrptw

import (
	"fmt"
	"strconv"
	"strings"
)

type ArrayIntFlags []int

func (i *ArrayIntFlags) String() string {
	return fmt.Sprintf("%v", *i)
}

// Set appends one value, or several when given as a comma separated list.
func (i *ArrayIntFlags) Set(value string) error {
	for _, part := range strings.Split(value, ",") {
		val, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return err
		}
		*i = append(*i, val)
	}
	return nil
}

type ArrayInt64Flags []int64

func (i *ArrayInt64Flags) String() string {
	return fmt.Sprintf("%v", *i)
}

func (i *ArrayInt64Flags) Set(value string) error {
	for _, part := range strings.Split(value, ",") {
		val, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return err
		}
		*i = append(*i, val)
	}
	return nil
}

// RangeFlag is a closed interval given as "lo:hi" or a single value.
type RangeFlag struct {
	Lo, Hi float64
}

func (r *RangeFlag) String() string {
	if r.Lo == r.Hi {
		return strconv.FormatFloat(r.Lo, 'g', -1, 64)
	}
	return fmt.Sprintf("%g:%g", r.Lo, r.Hi)
}

func (r *RangeFlag) Set(value string) error {
	lo, hi, found := strings.Cut(value, ":")
	l, err := strconv.ParseFloat(strings.TrimSpace(lo), 64)
	if err != nil {
		return err
	}
	h := l
	if found {
		h, err = strconv.ParseFloat(strings.TrimSpace(hi), 64)
		if err != nil {
			return err
		}
	}
	if h < l {
		return fmt.Errorf("range %q is inverted", value)
	}
	r.Lo, r.Hi = l, h
	return nil
}
