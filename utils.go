package vrptw

import (
	"math"
	"regexp"
)

// RoundTo rounds v to the given number of decimals.
func RoundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

// CalcEdgeDist builds the symmetric Euclidean distance matrix of the given
// coordinates, rounded to precision decimals. The diagonal is 0.
func CalcEdgeDist(coordinates [][2]float64, precision int) [][]float64 {
	n := len(coordinates)
	result := make([][]float64, n)
	for node := 0; node < n; node++ {
		result[node] = make([]float64, n)
	}
	for node := 0; node < n; node++ {
		for node2 := 0; node2 < node; node2++ {
			xDist := coordinates[node][0] - coordinates[node2][0]
			yDist := coordinates[node][1] - coordinates[node2][1]
			distance := RoundTo(math.Sqrt(xDist*xDist+yDist*yDist), precision)
			result[node][node2] = distance
			result[node2][node] = distance
		}
	}
	return result
}

// GetRouteCost sums the arc costs of depot -> route[0] -> ... -> depot.
func GetRouteCost(route []int, d [][]float64) float64 {
	if len(route) == 0 {
		return 0
	}
	cost := d[0][route[0]]
	for i := 0; i+1 < len(route); i++ {
		cost += d[route[i]][route[i+1]]
	}
	return cost + d[route[len(route)-1]][0]
}

var (
	jsonNumbers  = regexp.MustCompile(`\s*([-]?[0-9]+(\.[0-9]+)?),[ \t]*\n\s*([-]?[0-9]+(\.[0-9]+)?)(,)?`)
	jsonBrackets = regexp.MustCompile(`\[(([-]?[0-9]+(\.[0-9]+)?,)+[-]?[0-9]+(\.[0-9]+)?)[ \t]*\n\s*\](,?)(\s+)`)
)

// SanitizeJsonArrayLineBreaks puts numeric arrays of an indented JSON
// document on one line. Only whitespace holding a line break is removed,
// so string values are left alone.
func SanitizeJsonArrayLineBreaks(json string) string {
	res := json
	for jsonNumbers.MatchString(res) {
		res = jsonNumbers.ReplaceAllString(res, "$1,$3$5")
	}
	for jsonBrackets.MatchString(res) {
		res = jsonBrackets.ReplaceAllString(res, "[$1]$5$6")
	}
	return res
}
