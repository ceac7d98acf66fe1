package genai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pimentellima/mockdata-server/internal/model"
)

// BuildPrompt serializes the request deterministically: one numbered section
// per type spec, then the description, then the relationship list.
func BuildPrompt(req model.GenerationRequest) string {
	var b strings.Builder

	b.WriteString("Schema definitions:\n")
	for i, spec := range req.Types {
		fmt.Fprintf(&b, "Definition %d (%s):\n%s\nNumber of items to generate: %d\n\n",
			i+1, spec.Name, spec.TypeDefinition, spec.Count)
	}

	b.WriteString("Description:\n")
	if req.Description == "" {
		b.WriteString("No description provided\n")
	} else {
		b.WriteString(req.Description)
		b.WriteString("\n")
	}

	b.WriteString("\nRelationships:\n")
	if len(req.Relationships) == 0 {
		b.WriteString("No relationships provided\n")
	} else {
		for i, rel := range req.Relationships {
			encoded, _ := json.MarshalIndent(rel, "", "  ")
			fmt.Fprintf(&b, "Relationship %d:\n%s\n\n", i+1, encoded)
		}
	}

	return b.String()
}

// systemPrompt is the fixed instruction sent with every generation request.
// The output contract it mandates is what the orchestrator validates against:
// a JSON array of {name, jsonArray, typeDefinition} objects, one per input
// definition and in the same order, with exactly the requested number of
// elements per jsonArray and no literal newlines inside string values.
const systemPrompt = `You are an assistant specialized in generating realistic mock data from schema definitions. For every schema definition the user provides, generate exactly the requested number of items and return one result object per definition, in the same order as the input.

Each result object has three fields:
- "name": the name of the schema definition it corresponds to
- "jsonArray": a JSON array of generated records, serialized as a single-line string
- "typeDefinition": the schema definition echoed back verbatim

Output rules:
1. Every "jsonArray" must be valid, parseable JSON with exactly the requested number of elements.
2. NEVER include newline characters inside string values. Serialize each array on a single line without pretty-printing.
3. Each record must match the structure of its schema definition: respect field names, data types, enum constraints, optional fields, and nested objects.
4. Generate realistic, contextually appropriate data based on the description. Keep text values brief.
5. When relationships are provided, keep the referenced field values consistent between the source and target datasets.
6. Format dates in ISO 8601 (YYYY-MM-DDTHH:MM:SSZ).
7. Never include real personal information.`
