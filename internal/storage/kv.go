// Package storage defines the key-value persistence boundary shared by the
// journey stores and the process-wide storage-mode registry.
package storage

import "context"

// Well-known keys. Both backends treat values as opaque JSON blobs.
const (
	KeyJourneyStats  = "trakaido.journeystats"
	KeyCorpusChoices = "trakaido.corpuschoices"
	KeyStorageMode   = "trakaido.storagemode"

	// KeyVoicePrefs holds voice/display preferences. Outside the journey
	// core; persisted opaque for the UI.
	KeyVoicePrefs = "trakaido.voiceprefs"
)

// KeyValueStore is the abstract persistence surface. The local sqlite store
// and the remote API client both implement it. Read returns
// domain.ErrNotFound when the key is absent.
type KeyValueStore interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, value []byte) error
}
