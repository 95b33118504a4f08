package ports

import "github.com/mvpagent/mvpagent/internal/domain"

// ResultCache memoizes validation results by feature fingerprint so that
// repeated identical submissions skip the external model call. Only
// successful results are ever stored; failures must not leave entries
// behind. Implementations must be safe for concurrent use.
type ResultCache interface {
	// Get returns the cached result for a fingerprint and whether it was
	// present.
	Get(fingerprint string) (domain.ValidationResult, bool)

	// Set stores a result under a fingerprint, evicting older entries if
	// the cache is at capacity.
	Set(fingerprint string, result domain.ValidationResult)

	// Len returns the number of cached results.
	Len() int

	// Clear removes all cached results.
	Clear()
}
