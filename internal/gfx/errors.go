package gfx

import (
	"errors"
	"fmt"
)

var (
	ErrIncomplete         = errors.New("framebuffer incomplete")
	ErrIncompatibleFormat = errors.New("incompatible attachment format")
	ErrMissingAttachment  = errors.New("draw buffer has no attachment")
	ErrNoAttachments      = errors.New("framebuffer has no attachments")
	ErrNotColourSlot      = errors.New("draw buffer is not a colour slot")
	ErrNilTexture         = errors.New("nil texture")
	ErrMissingHandOff     = errors.New("input texture was never handed off")
	ErrReleased           = errors.New("object already released")
)

// ConfigError reports a pipeline wiring bug: an incomplete framebuffer, an
// attachment of the wrong format, or a pass rendered before its inputs were
// handed off. It is raised with panic, never returned, because it can only be
// fixed by changing the code that builds the pipeline.
type ConfigError struct {
	Object string // debug name of the target or pass
	Op     string
	Err    error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("gfx: %s %s: %v", e.Object, e.Op, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Fatal panics with a *ConfigError.
func Fatal(object, op string, err error) {
	panic(&ConfigError{Object: object, Op: op, Err: err})
}
