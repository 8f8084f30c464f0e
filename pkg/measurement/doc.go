// Package measurement holds the acquisition of one rack at one frequency.
//
// A Record is built in two phases:
//
//   - Load reads a tab-separated acquisition file recorded during a power
//     ramp and returns validated Raw samples.
//   - New keeps the samples of the ramp (the window ending at the voltage
//     peak), drops the first point when the RF level was stuck above the
//     configured start power, and fits power = a*voltage + b.
//
// Records are immutable once built. Open runs both phases.
package measurement
