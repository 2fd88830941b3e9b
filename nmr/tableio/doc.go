// Package tableio reads spectra from and writes fitted curves to plain
// tables with the columns freq, real and imag, as CSV or Parquet.
package tableio
