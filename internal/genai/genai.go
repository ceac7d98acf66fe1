// Package genai talks to the external generative text service. The service
// is treated as slow and unreliable; callers decide whether to resubmit.
package genai

import (
	"context"
)

// Entry is one named dataset in the collaborator's structured output. The
// generated records arrive as a JSON-array-as-string that still has to be
// parsed and validated by the caller.
type Entry struct {
	Name           string `json:"name"`
	JSONArray      string `json:"jsonArray"`
	TypeDefinition string `json:"typeDefinition"`
}

// Generator produces one Entry per requested type spec, in request order.
type Generator interface {
	Generate(ctx context.Context, prompt string) ([]Entry, error)
}
