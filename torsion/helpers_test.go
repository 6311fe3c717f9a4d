package torsion

import (
	"io"
	"math"

	"github.com/sirupsen/logrus"
)

func rad(deg float64) float64 { return deg * math.Pi / 180 }

// syntheticScan builds baseline and reference energies on an N point grid.
// The reference is the baseline plus the sum of the given terms scaled by amp.
func syntheticScan(N int, amp []float64, terms []Term, wiggle float64) (phis, reference, baseline []float64) {
	phis = GenerateAngles(N)
	reference = make([]float64, N)
	baseline = make([]float64, N)
	for k, phi := range phis {
		baseline[k] = 1.5 + math.Sin(rad(phi)) + 0.3*math.Cos(rad(2*phi))
		reference[k] = baseline[k] + wiggle*math.Sin(rad(5*phi+20))
		for i, t := range terms {
			reference[k] += amp[i] * (1 + t.Sign*math.Cos(float64(t.Multiplicity)*rad(phi-t.Phase)))
		}
	}
	return
}

func near(a, b float64) (l bool) {
	if math.Abs(a-b) < 1.e-08*math.Max(1, math.Abs(a)) {
		l = true
	}
	return
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func initialPhases(terms []Term) (phases []float64) {
	phases = make([]float64, len(terms))
	for i, t := range terms {
		phases[i] = t.Phase
	}
	return
}
