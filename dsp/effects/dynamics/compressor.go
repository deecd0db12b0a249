package dynamics

import (
	"fmt"
	"math"
)

const (
	// Defaults of a freshly created browser compressor node.
	DefaultThresholdDB = -24.0
	DefaultKneeDB      = 30.0
	DefaultRatio       = 12.0
	DefaultAttack      = 0.003
	DefaultRelease     = 0.25

	minThresholdDB = -100.0
	maxThresholdDB = 0.0
	minKneeDB      = 0.0
	maxKneeDB      = 40.0
	minRatio       = 1.0
	maxRatio       = 20.0
	maxTimeSeconds = 1.0

	// makeupExponent scales the full-range gain loss into makeup gain.
	makeupExponent = 0.6

	// log2Of10Div20 converts decibels to the log2 domain: log2(10) / 20.
	log2Of10Div20 = 0.166096404744
)

// Compressor is a soft-knee, feed-forward compressor with a log2-domain gain
// computer. The knee begins at the threshold and spans kneeDB above it.
//
// Compressor is single-threaded. Parameter changes should happen between
// blocks.
type Compressor struct {
	thresholdDB float64
	kneeDB      float64
	ratio       float64
	attack      float64 // seconds
	release     float64 // seconds

	sampleRate float64

	envelope float64

	attackCoeff      float64
	releaseCoeff     float64
	kneeCenterLog2   float64
	kneeWidthLog2    float64
	invKneeWidthLog2 float64
	makeupGainLin    float64

	reductionDB float64
}

// NewCompressor creates a compressor with browser-default parameters.
//
// Sample rate must be positive and finite.
func NewCompressor(sampleRate float64) (*Compressor, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("compressor sample rate must be positive and finite: %f", sampleRate)
	}

	c := &Compressor{
		thresholdDB: DefaultThresholdDB,
		kneeDB:      DefaultKneeDB,
		ratio:       DefaultRatio,
		attack:      DefaultAttack,
		release:     DefaultRelease,
		sampleRate:  sampleRate,
	}

	c.updateCoefficients()
	return c, nil
}

// SetThreshold sets the level in dB above which compression starts.
// Range: -100 to 0 dB.
func (c *Compressor) SetThreshold(dB float64) error {
	if dB < minThresholdDB || dB > maxThresholdDB || math.IsNaN(dB) {
		return fmt.Errorf("compressor threshold must be in [%g, %g]: %f", minThresholdDB, maxThresholdDB, dB)
	}
	c.thresholdDB = dB
	c.updateCoefficients()
	return nil
}

// SetKnee sets the width in dB of the region above the threshold where the
// curve transitions smoothly into the full ratio. Range: 0 to 40 dB.
func (c *Compressor) SetKnee(dB float64) error {
	if dB < minKneeDB || dB > maxKneeDB || math.IsNaN(dB) {
		return fmt.Errorf("compressor knee must be in [%g, %g]: %f", minKneeDB, maxKneeDB, dB)
	}
	c.kneeDB = dB
	c.updateCoefficients()
	return nil
}

// SetRatio sets the input/output dB ratio above the knee. Range: 1 to 20.
func (c *Compressor) SetRatio(ratio float64) error {
	if ratio < minRatio || ratio > maxRatio || math.IsNaN(ratio) {
		return fmt.Errorf("compressor ratio must be in [%g, %g]: %f", minRatio, maxRatio, ratio)
	}
	c.ratio = ratio
	c.updateCoefficients()
	return nil
}

// SetAttack sets the time in seconds to reduce gain by 10 dB. Range: 0 to 1 s.
func (c *Compressor) SetAttack(seconds float64) error {
	if seconds < 0 || seconds > maxTimeSeconds || math.IsNaN(seconds) {
		return fmt.Errorf("compressor attack must be in [0, %g]: %f", maxTimeSeconds, seconds)
	}
	c.attack = seconds
	c.updateTimeConstants()
	return nil
}

// SetRelease sets the time in seconds to recover 10 dB of gain. Range: 0 to 1 s.
func (c *Compressor) SetRelease(seconds float64) error {
	if seconds < 0 || seconds > maxTimeSeconds || math.IsNaN(seconds) {
		return fmt.Errorf("compressor release must be in [0, %g]: %f", maxTimeSeconds, seconds)
	}
	c.release = seconds
	c.updateTimeConstants()
	return nil
}

// Threshold returns the current threshold in dB.
func (c *Compressor) Threshold() float64 { return c.thresholdDB }

// Knee returns the current knee width in dB.
func (c *Compressor) Knee() float64 { return c.kneeDB }

// Ratio returns the current compression ratio.
func (c *Compressor) Ratio() float64 { return c.ratio }

// Attack returns the current attack time in seconds.
func (c *Compressor) Attack() float64 { return c.attack }

// Release returns the current release time in seconds.
func (c *Compressor) Release() float64 { return c.release }

// MakeupGain returns the automatic makeup gain in dB.
func (c *Compressor) MakeupGain() float64 {
	return 20 * math.Log10(c.makeupGainLin)
}

// Reduction returns the gain reduction in dB (<= 0) applied to the most
// recently processed sample, excluding makeup gain.
func (c *Compressor) Reduction() float64 { return c.reductionDB }

// ProcessSample processes one mono sample.
func (c *Compressor) ProcessSample(input float64) float64 {
	gain := c.detect(math.Abs(input))
	return input * gain * c.makeupGainLin
}

// ProcessInPlace applies compression to buf in place.
func (c *Compressor) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = c.ProcessSample(buf[i])
	}
}

// ProcessStereo compresses left and right in place with one detector driven
// by the louder channel, so the stereo image does not shift under reduction.
func (c *Compressor) ProcessStereo(left, right []float64) {
	n := len(left)
	if len(right) < n {
		n = len(right)
	}

	for i := 0; i < n; i++ {
		level := math.Max(math.Abs(left[i]), math.Abs(right[i]))
		g := c.detect(level) * c.makeupGainLin
		left[i] *= g
		right[i] *= g
	}
}

// CalculateOutputLevel computes the steady-state output level for a given
// input magnitude, including makeup gain.
func (c *Compressor) CalculateOutputLevel(inputMagnitude float64) float64 {
	inputMagnitude = math.Abs(inputMagnitude)
	return inputMagnitude * c.calculateGain(inputMagnitude) * c.makeupGainLin
}

// Reset clears the envelope follower and the reduction meter.
func (c *Compressor) Reset() {
	c.envelope = 0
	c.reductionDB = 0
}

func (c *Compressor) detect(level float64) float64 {
	if level > c.envelope {
		c.envelope += (level - c.envelope) * c.attackCoeff
	} else {
		c.envelope = level + (c.envelope-level)*c.releaseCoeff
	}

	gain := c.calculateGain(c.envelope)
	if gain < 1 {
		c.reductionDB = 20 * math.Log10(gain)
	} else {
		c.reductionDB = 0
	}

	return gain
}

func (c *Compressor) updateCoefficients() {
	c.kneeWidthLog2 = c.kneeDB * log2Of10Div20
	// The quadratic knee is centered on kneeCenter and spans +-width/2.
	c.kneeCenterLog2 = c.thresholdDB*log2Of10Div20 + c.kneeWidthLog2*0.5

	if c.kneeDB > 0 {
		c.invKneeWidthLog2 = 1.0 / c.kneeWidthLog2
	} else {
		c.invKneeWidthLog2 = 0
	}

	fullRangeGain := c.calculateGain(1.0)
	c.makeupGainLin = math.Pow(1/fullRangeGain, makeupExponent)

	c.updateTimeConstants()
}

func (c *Compressor) updateTimeConstants() {
	c.attackCoeff = timeCoefficient(c.attack, c.sampleRate, true)
	c.releaseCoeff = timeCoefficient(c.release, c.sampleRate, false)
}

// timeCoefficient returns the one-pole smoothing coefficient for a time
// constant. A zero time yields an instantaneous follower.
func timeCoefficient(seconds, sampleRate float64, attack bool) float64 {
	if seconds <= 0 {
		if attack {
			return 1
		}
		return 0
	}

	k := math.Exp(-math.Ln2 / (seconds * sampleRate))
	if attack {
		return 1 - k
	}
	return k
}

// calculateGain computes the gain multiplier for a detector level using the
// log2-domain soft-knee curve.
func (c *Compressor) calculateGain(level float64) float64 {
	if level <= 0 {
		return 1.0
	}

	overshoot := mathLog2(level) - c.kneeCenterLog2

	if c.kneeDB <= 0 {
		if overshoot <= 0 {
			return 1.0
		}
		return mathPower2(-overshoot * (1.0 - 1.0/c.ratio))
	}

	halfWidth := c.kneeWidthLog2 * 0.5

	var effective float64

	switch {
	case overshoot < -halfWidth:
		return 1.0
	case overshoot > halfWidth:
		effective = overshoot
	default:
		scratch := overshoot + halfWidth
		effective = scratch * scratch * 0.5 * c.invKneeWidthLog2
	}

	return mathPower2(-effective * (1.0 - 1.0/c.ratio))
}
