// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package film

import (
	"errors"
	"fmt"
	"strings"
)

// Error types reported in FieldError.Type.
const (
	ErrTypeMissing      = "missing"
	ErrTypeString       = "string_type"
	ErrTypeInt          = "int_type"
	ErrTypeIntFromFloat = "int_from_float"
	ErrTypeIntParsing   = "int_parsing"
	ErrTypeObject       = "model_attributes_type"
	ErrTypeList         = "list_type"
	ErrTypeJSONInvalid  = "json_invalid"
)

// FieldError describes one structural problem with an input. Loc is the path
// to the offending value, e.g. ["body","name"] or [3,"id"].
type FieldError struct {
	Loc  []any  `json:"loc"`
	Msg  string `json:"msg"`
	Type string `json:"type"`
}

// ValidationError is returned when input does not match the Video schema.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Errors) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		loc := make([]string, 0, len(fe.Loc))
		for _, l := range fe.Loc {
			loc = append(loc, fmt.Sprint(l))
		}
		parts = append(parts, strings.Join(loc, ".")+": "+fe.Msg)
	}
	return fmt.Sprintf("%d validation error(s): %s", len(e.Errors), strings.Join(parts, "; "))
}

func (e *ValidationError) add(loc []any, typ, msg string) {
	e.Errors = append(e.Errors, FieldError{Loc: loc, Msg: msg, Type: typ})
}

// IsValidation reports whether err is (or wraps) a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
