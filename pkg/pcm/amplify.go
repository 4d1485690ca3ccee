package pcm

import "math"

// AmplifyLinearSignal scales every sample in data by the linear factor
// equivalent to amplification dB, f(x) = x * 10^(dB/10).
func AmplifyLinearSignal(data []float32, db float32) []float32 {
	factor := float32(math.Pow(10, float64(db)/10))
	out := make([]float32, len(data))
	for i, x := range data {
		out[i] = x * factor
	}
	return out
}

// Amplifier returns a cgraph.Func1To1 transform function that amplifies
// each packet it sees by db decibels. It drops nothing on end-of-stream,
// since amplification needs no flush step.
func Amplifier(db float32) func(in []float32, ok bool) ([]float32, bool) {
	return func(in []float32, ok bool) ([]float32, bool) {
		if !ok {
			return nil, false
		}
		return AmplifyLinearSignal(in, db), true
	}
}
