package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// KeyPrefix namespaces every translation cache entry.
const KeyPrefix = "trans:"

// DeriveKey builds the deterministic cache key for a translation:
// "trans:<source>:<target>:" followed by the first 16 hex characters of the
// SHA-256 digest of the raw UTF-8 text. The digest keeps key size bounded
// for arbitrarily long texts while keeping collisions negligible.
func DeriveKey(text, source, target string) string {
	sum := sha256.Sum256([]byte(text))
	return KeyPrefix + source + ":" + target + ":" + hex.EncodeToString(sum[:8])
}
