package texture

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// nullSource is hashed in place of a nil config.
const nullSource = "\x00null"

// HashFunc reduces a string to a Fingerprint.
type HashFunc func(s string) Fingerprint

// Hash is the default HashFunc, backed by xxhash64.
func Hash(s string) Fingerprint {
	return Fingerprint(xxhash.Sum64String(s))
}

// Archiver converts texture maps into fingerprint maps.
type Archiver struct {
	hash HashFunc
}

// NewArchiver creates an archiver using the default hash.
func NewArchiver() *Archiver {
	return &Archiver{hash: Hash}
}

// NewArchiverWithHash creates an archiver using a custom hash function.
func NewArchiverWithHash(hash HashFunc) *Archiver {
	if hash == nil {
		hash = Hash
	}
	return &Archiver{hash: hash}
}

// Archive fingerprints every group of the map, including groups set to nil.
func (a *Archiver) Archive(textures Map) ArchivedMap {
	archived := make(ArchivedMap, len(textures))
	for group, cfg := range textures {
		archived[group] = a.Fingerprint(cfg)
	}
	return archived
}

// Fingerprint computes the fingerprint of a single config.
// The image source is hashed on its own and combined with the canonical JSON of
// the remaining attributes.
func (a *Archiver) Fingerprint(cfg *Config) Fingerprint {
	if cfg == nil {
		return a.hash(nullSource)
	}

	attrs := []byte("{}")
	if len(cfg.Attributes) > 0 {
		// encoding/json sorts map keys, which makes the attribute encoding canonical.
		encoded, err := json.Marshal(cfg.Attributes)
		if err != nil {
			// fmt prints maps with sorted keys, so the fallback stays deterministic.
			encoded = []byte(fmt.Sprintf("%#v", cfg.Attributes))
		}
		attrs = encoded
	}

	src := strconv.FormatUint(uint64(a.hash(cfg.ImageSource)), 10)
	return a.hash(src + "_" + string(attrs))
}
