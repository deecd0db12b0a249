package spatial

import "math"

// DistanceModel selects how gain falls off with distance.
type DistanceModel int

const (
	// DistanceLinear fades linearly from refDistance to maxDistance.
	DistanceLinear DistanceModel = iota
	// DistanceInverse follows ref / (ref + rolloff*(d-ref)).
	DistanceInverse
	// DistanceExponential follows (d/ref)^-rolloff.
	DistanceExponential
)

func (m DistanceModel) String() string {
	switch m {
	case DistanceLinear:
		return "linear"
	case DistanceInverse:
		return "inverse"
	case DistanceExponential:
		return "exponential"
	default:
		return "unknown"
	}
}

// DistanceGain returns the attenuation for a source at distance d.
// Distances below refDistance are not amplified.
func DistanceGain(model DistanceModel, d, refDistance, maxDistance, rolloff float64) float64 {
	switch model {
	case DistanceLinear:
		if maxDistance <= refDistance {
			return 1
		}
		d = math.Max(refDistance, math.Min(d, maxDistance))
		r := math.Max(0, math.Min(rolloff, 1))
		return 1 - r*(d-refDistance)/(maxDistance-refDistance)
	case DistanceInverse:
		d = math.Max(d, refDistance)
		den := refDistance + rolloff*(d-refDistance)
		if den <= 0 {
			return 1
		}
		return refDistance / den
	case DistanceExponential:
		if refDistance <= 0 {
			return 1
		}
		d = math.Max(d, refDistance)
		return math.Pow(d/refDistance, -rolloff)
	default:
		return 1
	}
}
