// Package uuidutil wraps uuid generation so callers never depend on the
// library directly.
package uuidutil

import "github.com/google/uuid"

func New() string {
	return uuid.New().String()
}

func IsValid(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
