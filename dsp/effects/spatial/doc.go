// Package spatial positions a mono source in 3D space around a listener.
//
// [Panner] implements the two panning models of a browser PannerNode
// (equal-power and HRTF) together with its three distance models. The
// listener sits at the origin facing -Z with +Y up. HRTF rendering convolves
// the source with per-ear impulse responses from an [HRIRProvider]; the
// default [SphericalHead] synthesizes them from a rigid-sphere head model.
package spatial
