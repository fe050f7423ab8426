package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey builds a key of the form prefix:sha256(json(parts)). Parts that
// cannot be marshalled are hashed from their %#v rendering instead, so
// distinct parts never collapse onto one key.
func hashKey(prefix string, parts ...any) string {
	data, err := json.Marshal(parts)
	if err != nil {
		data = fmt.Appendf(nil, "%#v", parts)
	}
	return prefix + ":" + Hash(data)
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
