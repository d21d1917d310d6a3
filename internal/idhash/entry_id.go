package idhash

import (
	"crypto/sha256"
	"fmt"

	"github.com/mr-tron/base58"

	"cap-ledger/internal/domain"
)

// ComputeEntryID computes a deterministic ledger entry id.
// Formula: SHA256(team|day|month|year), base58-encoded.
func ComputeEntryID(team string, date domain.Date) string {
	data := fmt.Sprintf("%s|%d|%d|%d", team, date.Day, date.Month, date.Year)

	hash := sha256.Sum256([]byte(data))
	return base58.Encode(hash[:])
}

// DecodeEntryID returns the raw hash bytes of an entry id.
func DecodeEntryID(id string) ([]byte, error) {
	raw, err := base58.Decode(id)
	if err != nil {
		return nil, fmt.Errorf("decode entry id: %w", err)
	}
	if len(raw) != sha256.Size {
		return nil, fmt.Errorf("decode entry id: want %d bytes, got %d", sha256.Size, len(raw))
	}
	return raw, nil
}
