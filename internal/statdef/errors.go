package statdef

import (
	"errors"
	"fmt"
)

var (
	ErrParse              = errors.New("parse error")
	ErrUnknownVariant     = errors.New("unknown variant")
	ErrMissingField       = errors.New("missing field")
	ErrUnknownTemplate    = errors.New("unknown template")
	ErrDuplicateTemplate  = errors.New("duplicate template")
	ErrMissingParameter   = errors.New("missing parameter")
	ErrInvalidPlaceholder = errors.New("invalid placeholder")
	ErrInvalidDefinition  = errors.New("invalid definition")
)

// MissingParameterError names the placeholder that had no value in the
// parameter map. errors.Is(err, ErrMissingParameter) holds for it.
type MissingParameterError struct {
	Name string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingParameter, e.Name)
}

func (e *MissingParameterError) Is(target error) bool {
	return target == ErrMissingParameter
}
