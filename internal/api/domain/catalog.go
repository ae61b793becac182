package domain

import (
	"errors"
)

// Body types of gallery models
const (
	BodyTypeFemale = "female"
	BodyTypeMale   = "male"
)

var (
	ErrModelNotFound = errors.New("model not found")
)

// ValidBodyType reports whether t is a known body type. Empty means "any".
func ValidBodyType(t string) bool {
	switch t {
	case "", BodyTypeFemale, BodyTypeMale:
		return true
	}
	return false
}
