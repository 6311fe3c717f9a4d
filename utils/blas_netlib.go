//go:build netlib
// +build netlib

package utils

// Build with -tags netlib to route gonum's BLAS calls through a system
// CBLAS (OpenBLAS) via cgo.

/*
#cgo LDFLAGS: -lopenblas -lm -lpthread
*/
import "C"

import (
	"gonum.org/v1/gonum/blas/blas64"
	netblas "gonum.org/v1/netlib/blas/netlib"
)

func init() {
	blas64.Use(netblas.Implementation{})
	BLASBackend = "netlib (cgo)"
}
