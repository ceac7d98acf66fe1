package model

import (
	"time"
)

// Run is one persisted generation transaction. Its named results are only
// reachable through the anonymous read path while APIVisible is true.
type Run struct {
	ID         string    `db:"id" json:"id"`
	AccountID  string    `db:"account_id" json:"accountId"`
	APIVisible bool      `db:"api_visible" json:"apiVisible"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// NamedResult is one generated dataset within a run. Payload is a JSON array
// of records, stored as text and never re-validated after creation.
type NamedResult struct {
	ID             string `db:"id" json:"id"`
	RunID          string `db:"run_id" json:"runId"`
	Name           string `db:"name" json:"name"`
	TypeDefinition string `db:"type_definition" json:"typeDefinition"`
	Payload        string `db:"payload" json:"json"`
}

// PublicNamedResult carries a named result together with its parent run's
// visibility flag, for the anonymous read path.
type PublicNamedResult struct {
	NamedResult
	APIVisible bool `db:"api_visible"`
}

// RunWithResults is the owner-facing listing shape.
type RunWithResults struct {
	Run
	Results []NamedResult `json:"results"`
}

type CreateRunParams struct {
	ID        string
	AccountID string
}

type CreateNamedResultParams struct {
	ID             string
	RunID          string
	Name           string
	TypeDefinition string
	Payload        string
}
