// Package profilestore persists the speaker's profile record: a single JSON
// blob under one storage key, merged over coded defaults on load so newly
// added fields degrade gracefully.
package profilestore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jonathan/cfp-scout/internal/types"
)

// SchemaVersion is stamped into every saved record.
const SchemaVersion = 1

// StoredProfile is the persisted record. Topics serves flat matching for
// users who never finished the interview; Interview holds the canonical
// profile once one has been committed.
type StoredProfile struct {
	SchemaVersion int                     `json:"schema_version"`
	Topics        []string                `json:"topics"`
	Interview     *types.InterviewProfile `json:"interview,omitempty"`
	UpdatedAt     time.Time               `json:"updated_at"`
}

// Store reads and writes the single profile record. Load never fails on bad
// stored content: corrupted JSON is discarded and defaults returned. Save
// serializes the full blob on every mutation; concurrent writers are
// last-write-wins.
type Store interface {
	Load(ctx context.Context) (*StoredProfile, error)
	Save(ctx context.Context, profile *StoredProfile) error
}

// Defaults returns the coded default record.
func Defaults() *StoredProfile {
	return &StoredProfile{
		SchemaVersion: SchemaVersion,
		Topics:        []string{},
	}
}

// merge unmarshals raw JSON over the defaults. Unknown stored fields are
// ignored and missing ones keep their default values. Corrupted input yields
// plain defaults.
func merge(raw []byte) *StoredProfile {
	profile := Defaults()
	if len(raw) == 0 {
		return profile
	}
	if err := json.Unmarshal(raw, profile); err != nil {
		return Defaults()
	}
	if profile.Topics == nil {
		profile.Topics = []string{}
	}
	return profile
}
