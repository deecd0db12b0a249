package spatial

import (
	"fmt"
	"math"
)

// HRIRProvider supplies the left and right ear impulse responses for a
// source direction.
type HRIRProvider interface {
	ImpulseResponse(azimuth, elevation, sampleRate float64) (left, right []float64, err error)
}

const (
	defaultHeadRadius = 0.0875 // m
	speedOfSound      = 343.0  // m/s
	defaultHRIRTaps   = 128

	// Head-shadow shape of the Brown-Duda model.
	shadowAlphaMin = 0.1
	shadowThetaMin = 150.0 // degrees
)

// SphericalHead synthesizes HRIRs from a rigid-sphere head: an interaural
// delay from the path length around the sphere and a one-pole/one-zero head
// shadow per ear. It has no pinna cues, so elevation only acts through the
// lateral angle.
type SphericalHead struct {
	Radius float64 // head radius in meters; zero selects 8.75 cm
	Taps   int     // impulse response length; zero selects 128
}

// ImpulseResponse implements HRIRProvider.
func (h SphericalHead) ImpulseResponse(azimuth, elevation, sampleRate float64) ([]float64, []float64, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, nil, fmt.Errorf("spherical head sample rate must be > 0 and finite: %f", sampleRate)
	}

	radius := h.Radius
	if radius <= 0 {
		radius = defaultHeadRadius
	}
	taps := h.Taps
	if taps <= 0 {
		taps = defaultHRIRTaps
	}

	dir := direction(azimuth, elevation)
	thetaRight := math.Acos(clampUnit(dir.X))
	thetaLeft := math.Acos(clampUnit(-dir.X))

	left, err := earResponse(thetaLeft, radius, sampleRate, taps)
	if err != nil {
		return nil, nil, err
	}
	right, err := earResponse(thetaRight, radius, sampleRate, taps)
	if err != nil {
		return nil, nil, err
	}

	return left, right, nil
}

// earResponse renders the response of one ear whose axis is theta radians
// away from the source.
func earResponse(theta, radius, sampleRate float64, taps int) ([]float64, error) {
	delay := earDelay(theta, radius) * sampleRate
	whole := int(math.Floor(delay))
	frac := delay - float64(whole)
	if whole+1 >= taps {
		return nil, fmt.Errorf("spherical head: %d taps cannot hold a %.1f sample delay", taps, delay)
	}

	ir := make([]float64, taps)
	ir[whole] = 1 - frac
	ir[whole+1] = frac

	// Head shadow (alpha*s + beta) / (s + beta), bilinear-transformed.
	beta := 2 * speedOfSound / radius
	alpha := (1 + shadowAlphaMin/2) + (1-shadowAlphaMin/2)*math.Cos(theta/radians(shadowThetaMin)*math.Pi)
	k := 2 * sampleRate
	b0 := (alpha*k + beta) / (k + beta)
	b1 := (beta - alpha*k) / (k + beta)
	a1 := (beta - k) / (k + beta)

	var x1, y1 float64
	for i, x := range ir {
		y := b0*x + b1*x1 - a1*y1
		x1, y1 = x, y
		ir[i] = y
	}

	return ir, nil
}

// earDelay returns the arrival time at an ear relative to the earliest
// possible arrival, so it is never negative.
func earDelay(theta, radius float64) float64 {
	base := radius / speedOfSound
	if theta < math.Pi/2 {
		return base - base*math.Cos(theta)
	}
	return base + base*(theta-math.Pi/2)
}
