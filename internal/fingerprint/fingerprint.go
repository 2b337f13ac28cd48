// Package fingerprint derives stable match keys from noisy transaction
// text. Both variants are pure functions: same input, same key, across
// runs and platforms.
package fingerprint

import (
	"crypto/sha1" //nolint:gosec // content key, not a security boundary
	"encoding/hex"
	"strings"

	"github.com/shekelflow/shekelflow/internal/textnorm"
)

// HashLength is the default truncation for V1 hash keys.
const HashLength = 12

const maxV0Tokens = 6

// V0 compresses free text into a short, human-scannable token key:
// normalized text with standalone all-digit tokens removed, truncated
// to the first six tokens. Lossy; collisions are tolerated where a
// human reviews the result.
func V0(text string) string {
	tokens := strings.Fields(textnorm.Normalize(text))
	kept := make([]string, 0, maxV0Tokens)
	for _, tok := range tokens {
		if isAllDigits(tok) {
			continue
		}
		kept = append(kept, tok)
		if len(kept) == maxV0Tokens {
			break
		}
	}
	return strings.Join(kept, " ")
}

// HashV1 returns the stable hash key for a transaction kind and
// description, truncated to the default length.
func HashV1(txnKind, description string) string {
	return HashV1Len(txnKind, description, HashLength)
}

// HashV1Len hashes lower-cased kind plus normalized description and
// returns the first length hex characters. The kind is part of the key
// so identical descriptions in different kinds never collide by
// construction.
func HashV1Len(txnKind, description string, length int) string {
	kind := strings.ToLower(strings.TrimSpace(txnKind))
	payload := kind + "\n" + textnorm.Normalize(description)
	digest := sha1.Sum([]byte(payload)) //nolint:gosec
	hexDigest := hex.EncodeToString(digest[:])
	if length < 0 {
		length = 0
	}
	if length > len(hexDigest) {
		length = len(hexDigest)
	}
	return hexDigest[:length]
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
