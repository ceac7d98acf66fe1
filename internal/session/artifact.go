// Package session implements the signed session artifact: a stateless blob
// carrying the account identity, the opaque refresh token, and the short
// access window. While the access window is open, requests are authenticated
// without touching the store.
package session

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pimentellima/mockdata-server/internal/util"
)

type Artifact struct {
	AccountID       string    `json:"accountId"`
	RefreshToken    string    `json:"refreshToken"`
	AccessExpiresAt time.Time `json:"accessExpiresAt"`
}

// AccessValid reports whether the access window is still open at now.
func (a Artifact) AccessValid(now time.Time) bool {
	return now.Before(a.AccessExpiresAt)
}

// Encode serializes the artifact and signs it with HMAC-SHA256.
// Format: base64url(payload) + "." + hex(hmac).
func Encode(a Artifact, secret string) (string, error) {
	payload, err := json.Marshal(a)
	if err != nil {
		return "", fmt.Errorf("marshal artifact: %w", err)
	}
	encoded := base64.RawURLEncoding.EncodeToString(payload)
	signature := util.HmacSHA256(secret, encoded)
	return encoded + "." + signature, nil
}

// Decode verifies the signature and deserializes the artifact. A tampered or
// malformed value is rejected; access-window expiry is the caller's concern.
func Decode(raw, secret string) (*Artifact, error) {
	encoded, signature, ok := strings.Cut(raw, ".")
	if !ok {
		return nil, fmt.Errorf("malformed session artifact")
	}

	expected := util.HmacSHA256(secret, encoded)
	if !util.ConstantTimeEqual(expected, signature) {
		return nil, fmt.Errorf("invalid session signature")
	}

	payload, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode session payload: %w", err)
	}

	var artifact Artifact
	if err := json.Unmarshal(payload, &artifact); err != nil {
		return nil, fmt.Errorf("unmarshal session payload: %w", err)
	}
	if artifact.AccountID == "" || artifact.RefreshToken == "" {
		return nil, fmt.Errorf("incomplete session artifact")
	}

	return &artifact, nil
}
