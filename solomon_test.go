package vrptw

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const c101Head = `C101

VEHICLE
NUMBER     CAPACITY
  25         200

CUSTOMER
CUST NO.  XCOORD.   YCOORD.    DEMAND   READY TIME  DUE DATE   SERVICE   TIME

    0      40         50          0          0       1236          0
    1      45         68         10        912        967         90
    2      45         70         30        825        870         90
    3      42         66         10         65        146         90
`

func TestParseSolomon(t *testing.T) {
	inst, err := ParseSolomon(strings.NewReader(c101Head), 0, 1)
	require.NoError(t, err)

	assert.Equal(t, "C101", inst.Name)
	assert.Equal(t, Fleet{Vehicles: 25, Capacity: 200}, inst.Fleet)
	assert.Equal(t, [2]float64{40, 50}, inst.Depot.Coordinates)
	assert.Equal(t, TimeWindow{Earliest: 0, Latest: 1236}, inst.Depot.TimeWindow)
	require.Len(t, inst.Customers, 3)
	assert.Equal(t, Customer{
		ID:          2,
		Coordinates: [2]float64{45, 70},
		Demand:      30,
		TimeWindow:  TimeWindow{Earliest: 825, Latest: 870},
		ServiceTime: 90,
	}, inst.Customers[1])
	assert.Equal(t, 18.7, inst.CostMatrix[0][1])
	assert.Equal(t, 2.0, inst.CostMatrix[1][2])
}

func TestParseSolomonLimit(t *testing.T) {
	inst, err := ParseSolomon(strings.NewReader(c101Head), 2, 2)
	require.NoError(t, err)
	assert.Equal(t, "C101.2", inst.Name)
	assert.Len(t, inst.Customers, 2)
	assert.Len(t, inst.CostMatrix, 3)
}

func TestParseSolomonErrors(t *testing.T) {
	_, err := ParseSolomon(strings.NewReader("C1\n\nVEHICLE\nNUMBER CAPACITY\n25\n"), 0, 2)
	assert.Error(t, err)

	_, err = ParseSolomon(strings.NewReader("C1\nCUSTOMER\n0 1 2 x 4 5 6\n"), 0, 2)
	assert.Error(t, err)

	_, err = ParseSolomon(strings.NewReader("C1\nVEHICLE\n2 10\nCUSTOMER\n0 0 0 0 0 100 0\n"), 0, 2)
	assert.ErrorIs(t, err, ErrFormulation)
}
