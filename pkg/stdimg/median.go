package stdimg

// MedianFilter returns a new matrix where every interior pixel holds, per
// channel, the median of its 8 neighbors in src. Border pixels are copied.
// src is not modified.
func MedianFilter(src *Matrix) *Matrix {
	return neighborhoodPass(src, Median)
}

// Median sorts a copy of s and returns the element at index len/2 (4).
// With 8 values there is no single middle element; the upper of the two
// central values is taken as is, never their average.
func Median(s Sample) uint8 {
	sorted := s
	Sort(sorted[:])
	return sorted[SampleSize/2]
}
