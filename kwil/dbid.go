package kwil

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// GenerateDBID derives the identifier of a database deployed by owner under
// name: "x" followed by the hex SHA-224 of the lower-cased name and the
// owner's public key.
func GenerateDBID(name string, owner []byte) string {
	data := append([]byte(strings.ToLower(name)), owner...)
	sum := sha256.Sum224(data)
	return "x" + hex.EncodeToString(sum[:])
}
