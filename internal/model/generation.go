package model

// TypeSpec describes one dataset to generate: a schema definition plus how
// many records the caller wants.
type TypeSpec struct {
	Name           string `json:"name"`
	TypeDefinition string `json:"typeDefinition"`
	Count          int    `json:"count"`
}

// Relationship links a field of one spec to a field of another so generated
// records stay consistent across datasets.
type Relationship struct {
	SourceType  string `json:"sourceType"`
	SourceField string `json:"sourceField"`
	TargetType  string `json:"targetType"`
	TargetField string `json:"targetField"`
	Cardinality string `json:"cardinality,omitempty"`
}

// GenerationRequest is transient input; it is never persisted as such.
type GenerationRequest struct {
	Types         []TypeSpec     `json:"types"`
	Description   string         `json:"description,omitempty"`
	Relationships []Relationship `json:"relationships,omitempty"`
}

// TotalCount sums the requested record counts across all specs.
func (r GenerationRequest) TotalCount() int {
	total := 0
	for _, spec := range r.Types {
		total += spec.Count
	}
	return total
}
