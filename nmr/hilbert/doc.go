// Package hilbert computes the discrete Hilbert transform of sampled real
// sequences with an FFT.
//
// It is the numeric counterpart of the closed-form dispersive lineshapes in
// package lineshape: the imaginary part of a causal spectrum is the Hilbert
// transform (Kramers-Kronig relation) of its real part. Input is zero-padded
// to at least twice its length to limit circular wrap-around.
package hilbert
