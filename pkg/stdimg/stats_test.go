package stdimg

import (
	"errors"
	"math"
	"testing"
)

func TestSummarize(t *testing.T) {
	var tab FrequencyTable
	tab[10] = 1
	tab[20] = 2
	tab[30] = 1
	s, err := Summarize(tab)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if s.Count != 4 || s.Min != 10 || s.Max != 30 || s.Mode != 20 {
		t.Fatalf("unexpected summary %+v", s)
	}
	if s.Mean != 20 || s.Median != 20 {
		t.Fatalf("mean/median = %v/%v, want 20/20", s.Mean, s.Median)
	}
	// population variance: (100+0+0+100)/4 = 50
	if math.Abs(s.StdDev-math.Sqrt(50)) > 1e-9 {
		t.Fatalf("stddev = %v", s.StdDev)
	}
}

func TestSummarizeModeTieTakesLowestLevel(t *testing.T) {
	var tab FrequencyTable
	tab[200] = 3
	tab[5] = 3
	s, err := Summarize(tab)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if s.Mode != 5 {
		t.Fatalf("mode = %d, want 5", s.Mode)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	if _, err := Summarize(FrequencyTable{}); !errors.Is(err, ErrEmptyTable) {
		t.Fatalf("expected ErrEmptyTable, got %v", err)
	}
	if _, err := SummarizeHistogram(Histogram{}); !errors.Is(err, ErrEmptyTable) {
		t.Fatalf("expected wrapped ErrEmptyTable, got %v", err)
	}
}

func TestSummarizeHistogram(t *testing.T) {
	m := makeSolidMatrix(2, 3, [NumChannels]uint8{1, 2, 3})
	sums, err := SummarizeHistogram(CountFrequencies(m))
	if err != nil {
		t.Fatalf("SummarizeHistogram failed: %v", err)
	}
	for _, ch := range Channels {
		if sums[ch].Count != 6 || sums[ch].Mean != float64(ch)+1 {
			t.Fatalf("%s summary %+v", ch, sums[ch])
		}
	}
}
