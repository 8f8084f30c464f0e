// Package plot is the plotting surface of the calibration pipeline.
//
// Measurements only know about Surface and Series. Figure implements Surface
// on top of gonum/plot and exports PNG files; Figures keeps figures keyed by
// number so a rack always draws on the same figure across runs.
package plot
