package stdimg

import (
	"errors"
	"fmt"

	"github.com/montanaflynn/stats"
)

// ErrEmptyTable is returned when summarizing a table that counted no pixels.
var ErrEmptyTable = errors.New("frequency table is empty")

// ChannelSummary describes the distribution recorded in one frequency table.
type ChannelSummary struct {
	Count  int
	Min    int
	Max    int
	Mean   float64
	Median float64
	StdDev float64
	Mode   int // lowest level among the most frequent ones
}

// Summarize computes descriptive statistics of the intensities counted by t.
func Summarize(t FrequencyTable) (ChannelSummary, error) {
	total := t.Total()
	if total == 0 {
		return ChannelSummary{}, ErrEmptyTable
	}
	// expanding the table yields the values already in ascending order
	data := make(stats.Float64Data, 0, total)
	mode, modeCount := 0, -1
	for level, n := range t {
		for k := 0; k < n; k++ {
			data = append(data, float64(level))
		}
		if n > modeCount {
			mode, modeCount = level, n
		}
	}

	s := ChannelSummary{Count: total, Mode: mode}
	minv, err := stats.Min(data)
	if err != nil {
		return s, fmt.Errorf("min: %w", err)
	}
	maxv, err := stats.Max(data)
	if err != nil {
		return s, fmt.Errorf("max: %w", err)
	}
	s.Min, s.Max = int(minv), int(maxv)
	if s.Mean, err = stats.Mean(data); err != nil {
		return s, fmt.Errorf("mean: %w", err)
	}
	if s.Median, err = stats.Median(data); err != nil {
		return s, fmt.Errorf("median: %w", err)
	}
	if s.StdDev, err = stats.StandardDeviationPopulation(data); err != nil {
		return s, fmt.Errorf("stddev: %w", err)
	}
	return s, nil
}

// SummarizeHistogram summarizes each channel of h in storage order.
func SummarizeHistogram(h Histogram) ([NumChannels]ChannelSummary, error) {
	var out [NumChannels]ChannelSummary
	for _, ch := range Channels {
		s, err := Summarize(h.Channel(ch))
		if err != nil {
			return out, fmt.Errorf("%s channel: %w", ch, err)
		}
		out[ch] = s
	}
	return out, nil
}
