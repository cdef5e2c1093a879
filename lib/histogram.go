package lib

import "fmt"
import "math"
import "math/bits"
import "strings"

// HistogramInt64 statistical histogram with power-of-two buckets,
// suitable for sizes that span several orders of magnitude. Bucket
// `i` counts samples in [2^(i-1), 2^i), bucket 0 counts samples <= 0.
// Not thread safe.
type HistogramInt64 struct {
	n         int64
	minval    int64
	maxval    int64
	sum       int64
	sumsq     float64
	init      bool
	histogram [65]int64
}

// NewhistogramInt64 return a new histogram object.
func NewhistogramInt64() *HistogramInt64 {
	return &HistogramInt64{}
}

// Add a sample to this histogram.
func (h *HistogramInt64) Add(sample int64) {
	h.n++
	h.sum += sample
	f := float64(sample)
	h.sumsq += f * f
	if h.init == false || sample < h.minval {
		h.minval = sample
		h.init = true
	}
	if h.maxval < sample {
		h.maxval = sample
	}
	h.histogram[bucket(sample)]++
}

// Min return minimum value from sample.
func (h *HistogramInt64) Min() int64 {
	return h.minval
}

// Max return maximum value from sample.
func (h *HistogramInt64) Max() int64 {
	return h.maxval
}

// Samples return total number of samples in the set.
func (h *HistogramInt64) Samples() int64 {
	return h.n
}

// Sum return the sum of all sample values.
func (h *HistogramInt64) Sum() int64 {
	return h.sum
}

// Mean return the average value of all samples.
func (h *HistogramInt64) Mean() int64 {
	if h.n == 0 {
		return 0
	}
	return int64(float64(h.sum) / float64(h.n))
}

// SD return by how much the samples differ from the mean value of
// sample set.
func (h *HistogramInt64) SD() int64 {
	if h.n == 0 {
		return 0
	}
	nF, meanF := float64(h.n), float64(h.Mean())
	variance := (h.sumsq / nF) - (meanF * meanF)
	if variance < 0 {
		return 0
	}
	return int64(math.Sqrt(variance))
}

// Clone copies the entire instance.
func (h *HistogramInt64) Clone() *HistogramInt64 {
	newh := *h
	return &newh
}

// Stats return a map of upper-bound to number of samples, for
// non-empty buckets.
func (h *HistogramInt64) Stats() map[string]int64 {
	m := make(map[string]int64)
	for i, count := range h.histogram {
		if count > 0 {
			m[bucketlabel(i)] = count
		}
	}
	return m
}

// Fullstats includes min, max, mean and stddeviance in the Stats().
func (h *HistogramInt64) Fullstats() map[string]interface{} {
	hmap := make(map[string]interface{})
	for k, v := range h.Stats() {
		hmap[k] = v
	}
	return map[string]interface{}{
		"samples":     h.Samples(),
		"min":         h.Min(),
		"max":         h.Max(),
		"mean":        h.Mean(),
		"stddeviance": h.SD(),
		"histogram":   hmap,
	}
}

// Logstring return non-empty buckets, in ascending order, as a
// loggable string.
func (h *HistogramInt64) Logstring() string {
	ss := []string{}
	for i, count := range h.histogram {
		if count > 0 {
			ss = append(ss, fmt.Sprintf(`"%v": %v`, bucketlabel(i), count))
		}
	}
	return "{" + strings.Join(ss, ",") + "}"
}

func bucket(sample int64) int {
	if sample <= 0 {
		return 0
	}
	return bits.Len64(uint64(sample))
}

func bucketlabel(i int) string {
	switch {
	case i == 0:
		return "0"
	case i == 64:
		return "+"
	}
	return fmt.Sprintf("%v", uint64(1)<<uint(i))
}
