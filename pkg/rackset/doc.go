// Package rackset loads the calibration data of every rack of the test
// bench at once.
package rackset
