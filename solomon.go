package vrptw

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseSolomon reads a benchmark instance in the Solomon text format:
//
//	C101
//
//	VEHICLE
//	NUMBER     CAPACITY
//	  25         200
//
//	CUSTOMER
//	CUST NO.  XCOORD.   YCOORD.    DEMAND   READY TIME  DUE DATE   SERVICE   TIME
//	    0      40         50          0          0       1236          0
//	    1      45         68         10        912        967         90
//
// The first customer row is the depot. When limit > 0 only the first limit
// customers are kept (the classic 25 and 50 customer variants). Costs are
// Euclidean distances rounded to precision decimals.
func ParseSolomon(r io.Reader, limit, precision int) (*Instance, error) {
	sc := bufio.NewScanner(r)
	var (
		inst    = &Instance{}
		section string
		rows    [][]float64
		lineNo  int
	)
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		upper := strings.ToUpper(line)
		switch {
		case inst.Name == "" && section == "":
			inst.Name = line
			continue
		case upper == "VEHICLE" || upper == "CUSTOMER":
			section = upper
			continue
		case strings.HasPrefix(upper, "NUMBER") || strings.HasPrefix(upper, "CUST"):
			continue
		}
		fields := strings.Fields(line)
		nums := make([]float64, len(fields))
		for k, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			nums[k] = v
		}
		switch section {
		case "VEHICLE":
			if len(nums) != 2 {
				return nil, fmt.Errorf("line %d: want vehicle number and capacity, got %d fields", lineNo, len(nums))
			}
			inst.Fleet = Fleet{Vehicles: int(nums[0]), Capacity: int(nums[1])}
		case "CUSTOMER":
			if len(nums) != 7 {
				return nil, fmt.Errorf("line %d: want 7 customer fields, got %d", lineNo, len(nums))
			}
			rows = append(rows, nums)
		default:
			return nil, fmt.Errorf("line %d: data outside of a section", lineNo)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, formulationErr("solomon instance %q has no customers", inst.Name)
	}
	if limit > 0 && len(rows) > limit+1 {
		rows = rows[:limit+1]
	}

	coordinates := make([][2]float64, len(rows))
	for k, row := range rows {
		coordinates[k] = [2]float64{row[1], row[2]}
	}
	depot := rows[0]
	inst.Depot = Depot{Coordinates: coordinates[0], TimeWindow: TimeWindow{Earliest: depot[4], Latest: depot[5]}}
	for k, row := range rows[1:] {
		inst.Customers = append(inst.Customers, Customer{
			ID:          k + 1,
			Coordinates: coordinates[k+1],
			Demand:      int(row[3]),
			TimeWindow:  TimeWindow{Earliest: row[4], Latest: row[5]},
			ServiceTime: row[6],
		})
	}
	inst.CostMatrix = CalcEdgeDist(coordinates, precision)
	inst.Comment = fmt.Sprintf("Solomon instance %s, %d customers", inst.Name, len(inst.Customers))
	if limit > 0 {
		inst.Name = fmt.Sprintf("%s.%d", inst.Name, len(inst.Customers))
	}
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	return inst, nil
}
