// Package errorstudy estimates how an error on the rack calibration
// constants propagates to the voltage computed on the coaxial line.
//
// The coax voltage is derived from the acquisition voltage v of a rack
// calibrated with power = a*v + b, and from the probe coupling g:
//
//	V = sqrt(2e-3 * z0 * 10^((|g+3| + a*v + b)/10))
package errorstudy
