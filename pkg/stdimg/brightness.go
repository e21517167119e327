package stdimg

// ApplyBrightness adds level to every channel of every pixel, saturating at 0
// and 255. m is modified in place and returned; clone it first to keep the
// original.
func ApplyBrightness(m *Matrix, level int) *Matrix {
	if m == nil || level == 0 {
		return m
	}
	// any offset beyond +-255 saturates every value anyway
	level = clampInt(level, -255, 255)
	for i, v := range m.Pix {
		m.Pix[i] = clampAdd(v, level)
	}
	return m
}

// clampAdd returns v+level saturated to [0,255].
func clampAdd(v uint8, level int) uint8 {
	raw := int(v) + level
	if raw < 0 {
		return 0
	}
	if raw > 255 {
		return 255
	}
	return uint8(raw)
}
