// Package monitor watches the outgoing frame stream for unsteady gait.
//
// Ownership boundary:
// - rolling accelerometer statistics (Detector)
// - frame sink that reassembles ticks and feeds the detector (Monitor)
//
// A sample is unstable when the window variance of the acceleration magnitude
// exceeds VarianceThreshold, or when at least two axes moved by more than
// DeltaThreshold since the previous sample. DurationThreshold consecutive
// unstable samples raise an alert.
package monitor
