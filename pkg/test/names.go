package test

import (
	"strings"

	"github.com/galdor/go-uuid"
)

// RandomName returns a unique name suitable for a database or a measurement.
// Dashes are not used so that names can appear unquoted in queries.
func RandomName(prefix string) string {
	name := uuid.MustGenerate(uuid.V7).String()
	name = strings.ReplaceAll(name, "-", "")

	if prefix != "" {
		name = prefix + "_" + name
	}

	return name
}
