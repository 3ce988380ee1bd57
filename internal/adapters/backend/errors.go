// Package backend implements shader compilation backends.
package backend

import (
	"fmt"

	"go.trai.ch/zerr"
)

var (
	errUnknownProgram     = zerr.New("unknown program handle")
	errUnknownLocation    = zerr.New("unknown binding location")
	errUnsupportedUniform = zerr.New("unsupported uniform value type")
)

// checkUniformValue accepts the scalar and vector types a uniform can hold.
func checkUniformValue(value any) error {
	switch value.(type) {
	case float32, float64, int32, uint32, int, bool,
		[]float32, [2]float32, [3]float32, [4]float32, [16]float32:
		return nil
	default:
		return zerr.With(errUnsupportedUniform, "type", fmt.Sprintf("%T", value))
	}
}
