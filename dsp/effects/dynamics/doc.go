// Package dynamics provides the dynamics-compression stage of a processing
// chain.
//
// [Compressor] follows the parameter set and value ranges of a browser
// DynamicsCompressorNode: threshold and knee in dB, ratio, attack and release
// in seconds, automatic makeup gain and a stereo-linked peak detector.
package dynamics
