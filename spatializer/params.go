package spatializer

import "github.com/cwbudde/algo-spatial/audiograph"

// PannerParams positions the source once, relative to a listener at the
// origin facing -Z.
type PannerParams struct {
	Model         audiograph.PanningModel
	DistanceModel audiograph.DistanceModel
	RefDistance   float64
	MaxDistance   float64
	RolloffFactor float64
	X, Y, Z       float64
}

// CompressorParams are in dB, a plain ratio and seconds.
type CompressorParams struct {
	Threshold float64
	Knee      float64
	Ratio     float64
	Attack    float64
	Release   float64
}

// EqualizerParams describe the shelf stage.
type EqualizerParams struct {
	Type      audiograph.FilterType
	Frequency float64
	Gain      float64
}

// ChainParams is the complete chain configuration.
type ChainParams struct {
	Panner     PannerParams
	Compressor CompressorParams
	Equalizer  EqualizerParams
	// Gain is the linear output multiplier.
	Gain float64
}

// DefaultChainParams returns the chain every element receives: a source
// above and slightly behind the listener, heavy compression, a +10 dB
// presence shelf and a 4x output gain.
func DefaultChainParams() ChainParams {
	return ChainParams{
		Panner: PannerParams{
			Model:         audiograph.PanningHRTF,
			DistanceModel: audiograph.DistanceExponential,
			RefDistance:   0.5,
			MaxDistance:   50,
			RolloffFactor: 2,
			X:             0,
			Y:             5,
			Z:             2,
		},
		Compressor: CompressorParams{
			Threshold: -50,
			Knee:      20,
			Ratio:     15,
			Attack:    0.003,
			Release:   0.25,
		},
		Equalizer: EqualizerParams{
			Type:      audiograph.FilterHighShelf,
			Frequency: 2000,
			Gain:      10,
		},
		Gain: 4,
	}
}
