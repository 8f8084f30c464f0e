// Package fit implements the linear calibration model of an RF rack and the
// ordinary least-squares routine used to estimate it.
//
// The model maps the acquisition voltage of a rack, in [0, 10V], to the RF
// power at the entry of the rack, in dBm:
//
//	power = A*voltage + B
package fit
