package stdimg

// AverageFilter returns a new matrix where every interior pixel holds, per
// channel, the mean of its 8 neighbors in src. Border pixels are copied.
//
// The mean is rounded half up: (sum + 4) / 8. src is not modified.
func AverageFilter(src *Matrix) *Matrix {
	return neighborhoodPass(src, Mean)
}

// Mean returns the arithmetic mean of s rounded half up.
func Mean(s Sample) uint8 {
	sum := 0
	for _, v := range s {
		sum += int(v)
	}
	return uint8((sum + SampleSize/2) / SampleSize)
}

// neighborhoodPass reads every interior neighborhood from src and writes
// reduce's result into a copy of src. Reads never observe writes made during
// the same pass, so traversal order does not affect the output.
func neighborhoodPass(src *Matrix, reduce func(Sample) uint8) *Matrix {
	if src == nil {
		return nil
	}
	dst := src.Clone()
	for row := 1; row < src.Rows-1; row++ {
		for col := 1; col < src.Cols-1; col++ {
			i := dst.Offset(row, col)
			for _, ch := range Channels {
				dst.Pix[i+int(ch)] = reduce(Neighbors(src, row, col, ch))
			}
		}
	}
	return dst
}
