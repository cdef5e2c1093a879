package lib

import "testing"
import "reflect"

func TestHistogramInt(t *testing.T) {
	h := NewhistogramInt64()
	for i := 1; i <= 100; i++ {
		h.Add(int64(i))
	}

	if x, y := int64(1), h.Min(); x != y {
		t.Errorf("Min() expected %v, got %v", x, y)
	} else if x, y := int64(100), h.Max(); x != y {
		t.Errorf("Max() expected %v, got %v", x, y)
	} else if x, y := int64(100), h.Samples(); x != y {
		t.Errorf("Samples() expected %v, got %v", x, y)
	} else if x, y := int64(100*101)/2, h.Sum(); x != y {
		t.Errorf("Sum() expected %v, got %v", x, y)
	} else if x, y := int64(50), h.Mean(); x != y {
		t.Errorf("Mean() expected %v, got %v", x, y)
	} else if x, y := int64(29), h.SD(); x != y {
		t.Errorf("SD() expected %v, got %v", x, y)
	}

	// check histogram
	samples := []int64{-1, 0, 1, 2, 3, 4, 7, 8, 1023, 1024, 1 << 63 - 1}
	ref := map[string]int64{
		"0": 2, "2": 1, "4": 2, "8": 2, "16": 1, "1024": 1, "2048": 1, "9223372036854775808": 1,
	}
	h = NewhistogramInt64()
	for _, sample := range samples {
		h.Add(sample)
	}
	if data := h.Stats(); !reflect.DeepEqual(ref, data) {
		t.Errorf("expected %v, got %v", ref, data)
	}
	if x := h.Min(); x != -1 {
		t.Errorf("expected %v, got %v", -1, x)
	}
}

func TestHistogramClone(t *testing.T) {
	h := NewhistogramInt64()
	h.Add(10)
	newh := h.Clone()
	newh.Add(20)
	if x := h.Samples(); x != 1 {
		t.Errorf("expected %v, got %v", 1, x)
	} else if x := newh.Samples(); x != 2 {
		t.Errorf("expected %v, got %v", 2, x)
	}
	ref := `{"16": 1,"32": 2}`
	newh.Add(16)
	if x := newh.Logstring(); x != ref {
		t.Errorf("expected %v, got %v", ref, x)
	}
	stats := newh.Fullstats()
	if x := stats["samples"].(int64); x != 3 {
		t.Errorf("expected %v, got %v", 3, x)
	}
}
