package progress

import (
	"math"
	"strconv"
	"strings"
)

// Interpolate evaluates the piecewise-linear function through xp/fp at x.
// xp must be non-decreasing. Outside the anchors the nearest end value is
// used. When several anchors share an abscissa the last one wins.
func Interpolate(x float64, xp, fp []float64) float64 {
	n := len(xp)
	if n == 0 || n != len(fp) {
		return math.NaN()
	}
	if x < xp[0] {
		return fp[0]
	}
	j := 0
	for i := range xp {
		if xp[i] <= x {
			j = i
		}
	}
	if j == n-1 {
		return fp[n-1]
	}
	dx := xp[j+1] - xp[j]
	if dx == 0 {
		return fp[j+1]
	}
	return fp[j] + (x-xp[j])*(fp[j+1]-fp[j])/dx
}

// TimeColumn rebuilds a time cell for rows 1..n from banner anchors. The
// series starts at (0, 0) and, when total is known, ends at (n, total).
// Without a total, rows past the last anchor are absent. Without any anchor
// beyond the origin every cell is absent.
func TimeColumn(n int, anchors []Anchor, total *float64) []string {
	out := make([]string, n)
	if n == 0 || (len(anchors) == 0 && total == nil) {
		return out
	}

	xp := []float64{0}
	fp := []float64{0}
	for _, a := range anchors {
		xp = append(xp, float64(a.Row))
		fp = append(fp, a.Elapsed)
	}
	if total != nil {
		xp = append(xp, float64(n))
		fp = append(fp, *total)
	}
	last := xp[len(xp)-1]

	for i := range out {
		if float64(i+1) > last {
			break
		}
		v := Interpolate(float64(i+1), xp, fp)
		out[i] = FormatSeconds(math.Round(v*100) / 100)
	}
	return out
}

// FormatSeconds renders a float the way the other dialects print seconds,
// always keeping a decimal point.
func FormatSeconds(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEIN") {
		s += ".0"
	}
	return s
}

func parseFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
