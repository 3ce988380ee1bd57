package domain

import (
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"
)

// ShaderKind is the pipeline stage a source file compiles to.
type ShaderKind uint8

const (
	// KindVertex is a vertex stage.
	KindVertex ShaderKind = iota + 1
	// KindFragment is a fragment stage.
	KindFragment
	// KindGeometry is a geometry stage.
	KindGeometry
	// KindCompute is a compute stage.
	KindCompute
	// KindModule is a multi-entry-point module whose stages are declared in source (WGSL).
	KindModule
)

var kindByExt = map[string]ShaderKind{
	".vs":   KindVertex,
	".vert": KindVertex,
	".fs":   KindFragment,
	".frag": KindFragment,
	".gs":   KindGeometry,
	".geom": KindGeometry,
	".cs":   KindCompute,
	".comp": KindCompute,
	".wgsl": KindModule,
}

// KindFromPath derives the shader kind from the file extension.
func KindFromPath(path string) (ShaderKind, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if k, ok := kindByExt[ext]; ok {
		return k, nil
	}
	return 0, zerr.With(zerr.With(ErrUnknownShaderKind, "path", path), "extension", ext)
}

// String returns the upper-case stage name.
func (k ShaderKind) String() string {
	switch k {
	case KindVertex:
		return "VERTEX"
	case KindFragment:
		return "FRAGMENT"
	case KindGeometry:
		return "GEOMETRY"
	case KindCompute:
		return "COMPUTE"
	case KindModule:
		return "MODULE"
	default:
		return "UNKNOWN"
	}
}
