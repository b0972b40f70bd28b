// Package stats summarises 8-bit pixel data per channel in the shape of a
// describe table: count, mean, std, min, quartiles and max.
package stats

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// Summary holds the statistics of one channel.
type Summary struct {
	Name  string
	Count int
	Mean  float64
	Std   float64
	Min   float64
	Q25   float64
	Q50   float64
	Q75   float64
	Max   float64
}

type Table struct {
	Columns []Summary
}

// ChannelNames returns the column labels for interleaved data in BGR order.
func ChannelNames(channels int) []string {
	switch channels {
	case 1:
		return []string{"Gray"}
	case 3:
		return []string{"B", "G", "R"}
	case 4:
		return []string{"B", "G", "R", "A"}
	default:
		names := make([]string, channels)
		for i := range names {
			names[i] = fmt.Sprintf("C%d", i)
		}
		return names
	}
}

// Describe computes a Summary per channel of interleaved 8-bit samples.
func Describe(data []byte, channels int) (Table, error) {
	if channels <= 0 {
		return Table{}, fmt.Errorf("invalid channel count %d", channels)
	}
	if len(data) == 0 {
		return Table{}, fmt.Errorf("no pixel data")
	}
	if len(data)%channels != 0 {
		return Table{}, fmt.Errorf("data length %d is not a multiple of %d channels", len(data), channels)
	}

	hist := make([][256]float64, channels)
	for i, v := range data {
		hist[i%channels][v]++
	}

	names := ChannelNames(channels)
	table := Table{Columns: make([]Summary, channels)}
	for c := range hist {
		table.Columns[c] = summarize(names[c], &hist[c])
	}
	return table, nil
}

var levels = func() []float64 {
	v := make([]float64, 256)
	for i := range v {
		v[i] = float64(i)
	}
	return v
}()

func summarize(name string, hist *[256]float64) Summary {
	n := 0
	for _, c := range hist {
		n += int(c)
	}

	mean, std := stat.MeanStdDev(levels, hist[:])
	if n < 2 {
		std = math.NaN()
	}

	return Summary{
		Name:  name,
		Count: n,
		Mean:  mean,
		Std:   std,
		Min:   quantile(hist, n, 0),
		Q25:   quantile(hist, n, 0.25),
		Q50:   quantile(hist, n, 0.5),
		Q75:   quantile(hist, n, 0.75),
		Max:   quantile(hist, n, 1),
	}
}

// quantile interpolates linearly between the order statistics around
// rank (n-1)p.
func quantile(hist *[256]float64, n int, p float64) float64 {
	h := float64(n-1) * p
	lo := int(math.Floor(h))
	hi := min(lo+1, n-1)

	a := float64(valueAtRank(hist, lo))
	b := float64(valueAtRank(hist, hi))
	return a + (h-float64(lo))*(b-a)
}

// valueAtRank returns the k-th smallest sample (0-based).
func valueAtRank(hist *[256]float64, k int) int {
	cum := 0
	for v, c := range hist {
		cum += int(c)
		if cum > k {
			return v
		}
	}
	return 255
}

func (t Table) String() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%-6s", ""))
	for _, col := range t.Columns {
		b.WriteString(fmt.Sprintf("%14s", col.Name))
	}
	b.WriteByte('\n')

	rows := []struct {
		label string
		value func(Summary) float64
	}{
		{"count", func(s Summary) float64 { return float64(s.Count) }},
		{"mean", func(s Summary) float64 { return s.Mean }},
		{"std", func(s Summary) float64 { return s.Std }},
		{"min", func(s Summary) float64 { return s.Min }},
		{"25%", func(s Summary) float64 { return s.Q25 }},
		{"50%", func(s Summary) float64 { return s.Q50 }},
		{"75%", func(s Summary) float64 { return s.Q75 }},
		{"max", func(s Summary) float64 { return s.Max }},
	}
	for _, row := range rows {
		b.WriteString(fmt.Sprintf("%-6s", row.label))
		for _, col := range t.Columns {
			b.WriteString(fmt.Sprintf("%14.6f", row.value(col)))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
