package core

import (
	"errors"
)

var (
	ErrShaderCompile      = errors.New("shader compilation failed")
	ErrProgramLink        = errors.New("program link failed")
	ErrFramebuffer        = errors.New("framebuffer incomplete")
	ErrUnknownResource    = errors.New("unknown resource")
	ErrUnsupportedFormat  = errors.New("unsupported image format")
	ErrInvalidImageLayout = errors.New("invalid image layout")
	ErrUnknown            = errors.New("unknown")
)
