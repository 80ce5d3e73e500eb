package config

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// hashBytes is the BLAKE3 digest recorded as Config.SourceHash.
func hashBytes(data []byte) string {
	hash := blake3.Sum256(data)
	return hex.EncodeToString(hash[:])
}
