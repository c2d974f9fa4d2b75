// Package spectrum computes complex spectra and derived magnitude, power and
// phase views.
//
// The transforms and the Goertzel inner loop are dispatch slots registered as
// module "spectrum": they run the built-in implementations (FFT through
// algo-fft) until optimized mode binds an accelerator plugin named
// algoaccel_spectrum_<tier> or algoaccel_spectrum. Magnitude and power
// extraction go through the vecmath slots.
package spectrum
