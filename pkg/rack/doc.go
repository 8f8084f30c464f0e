// Package rack groups the measurements of one RF rack at every tested
// frequency and writes its calibration file and figures.
//
// Expected folder layout, one file per frequency, no nesting:
//
//	E1/
//	├── MesureE1-100MHz.txt
//	├── MesureE1-120MHz.txt
//	└── MesureE1-80MHz.txt
package rack
