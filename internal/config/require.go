package config

import (
	"log"
	"slices"
)

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}

func MustOneOf(value, envName string, allowed ...string) {
	if !slices.Contains(allowed, value) {
		log.Fatalf("env %s must be one of %v, got %q", envName, allowed, value)
	}
}
