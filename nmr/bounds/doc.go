// Package bounds derives the search box for a fit from initial peak
// estimates.
//
// Per-peak limits are multiples of the estimate (width and area) or a
// window measured in widths (center). Global limits for phase, mix and
// offset are absolute ranges. The box is laid out exactly like a
// [model.Vector].
package bounds
