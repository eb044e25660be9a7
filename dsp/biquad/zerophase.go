package biquad

// ZeroPhase filters buf in-place through the cascade twice, once forward
// and once backward, cancelling the phase shift of the filter. The
// effective magnitude response is squared, so a 4th-order cascade yields
// 8th-order attenuation.
//
// The chain state is reset before each pass and left reset on return, so
// a single chain can be reused across independent buffers.
func ZeroPhase(c *Chain, buf []float64) {
	if len(buf) == 0 {
		return
	}

	c.Reset()
	c.ProcessBlock(buf)

	reverse(buf)

	c.Reset()
	c.ProcessBlock(buf)

	reverse(buf)
	c.Reset()
}

func reverse(buf []float64) {
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
}
