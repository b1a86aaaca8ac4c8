package sim

import (
	"log"
	"strings"
)

// NameMustBeValid panics if the name cannot be used to identify a stage.
// Stage names appear in trace locations and table rows, so they must be
// non-empty and free of whitespace.
func NameMustBeValid(name string) {
	if name == "" {
		log.Panic("name must not be empty")
	}

	if strings.ContainsAny(name, " \t\n") {
		log.Panicf("name %q must not contain whitespace", name)
	}
}
