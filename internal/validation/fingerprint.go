package validation

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/mvpagent/mvpagent/internal/domain"
)

// Fingerprint derives the memo key for a feature request. Two requests with
// the same name, description, and acceptance criteria share a fingerprint;
// any difference in those fields produces a distinct one. Fields are
// delimited so concatenation ambiguity cannot collide keys.
func Fingerprint(req domain.FeatureRequest) string {
	h := sha256.New()
	h.Write([]byte(req.Name))
	h.Write([]byte{0})
	h.Write([]byte(req.Description))
	for _, criterion := range req.AcceptanceCriteria {
		h.Write([]byte{0})
		h.Write([]byte(criterion))
	}
	return hex.EncodeToString(h.Sum(nil))
}
