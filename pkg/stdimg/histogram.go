package stdimg

// Levels is the number of distinct intensity values a channel can hold.
const Levels = 256

// FrequencyTable counts, for each intensity level, how many pixels hold it.
type FrequencyTable [Levels]int

// Total returns the number of pixels counted by t.
func (t FrequencyTable) Total() int {
	n := 0
	for _, v := range t {
		n += v
	}
	return n
}

// Max returns the largest bucket count.
func (t FrequencyTable) Max() int {
	maxv := 0
	for _, v := range t {
		if v > maxv {
			maxv = v
		}
	}
	return maxv
}

// Histogram holds one frequency table per channel.
type Histogram struct {
	Red   FrequencyTable
	Green FrequencyTable
	Blue  FrequencyTable
}

// Channel returns the table for ch.
func (h *Histogram) Channel(ch Channel) FrequencyTable {
	switch ch {
	case Green:
		return h.Green
	case Blue:
		return h.Blue
	default:
		return h.Red
	}
}

// CountFrequencies scans m once and tallies the channel values of every pixel.
// Each returned table sums to m.Rows*m.Cols.
func CountFrequencies(m *Matrix) Histogram {
	var h Histogram
	if m == nil {
		return h
	}
	for i := 0; i+2 < len(m.Pix); i += NumChannels {
		h.Red[m.Pix[i+0]]++
		h.Green[m.Pix[i+1]]++
		h.Blue[m.Pix[i+2]]++
	}
	return h
}
