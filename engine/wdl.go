package engine

import "math"

// wdlCoeffsA and wdlCoeffsB are the cubic-polynomial coefficients from spec
// §6's WDL model, evaluated Horner-style against m = min(240, ply)/64. Not
// present in the teacher at all (it reports raw centipawn/mate scores only,
// per getMateOrCPScore in uci.go); added fresh, grounded in the same
// info-line formatting entry point the teacher already uses for score.
var (
	wdlCoeffsA = [4]float64{0.38036525, -2.82015070, 23.17882135, 307.36768407}
	wdlCoeffsB = [4]float64{-2.29434733, 13.27689788, -14.26828904, 63.45318330}
)

// WDL reports the win/draw/loss permille triple for centipawn score v at the
// given ply, per spec §6's formula. The loss probability is the win
// probability of the mirrored (negated) score.
func WDL(v Value, ply int) (win, draw, loss int) {
	m := math.Min(240, float64(ply)) / 64.0

	a := horner(wdlCoeffsA[:], m)
	b := horner(wdlCoeffsB[:], m)

	clamped := math.Max(-4000, math.Min(4000, float64(v)))
	win = int(math.Round(1000 / (1 + math.Exp((a-clamped)/b))))

	clampedLoss := math.Max(-4000, math.Min(4000, float64(-v)))
	loss = int(math.Round(1000 / (1 + math.Exp((a-clampedLoss)/b))))

	draw = 1000 - win - loss
	if draw < 0 {
		draw = 0
	}
	return win, draw, loss
}

func horner(coeffs []float64, x float64) float64 {
	result := 0.0
	for _, c := range coeffs {
		result = result*x + c
	}
	return result
}
