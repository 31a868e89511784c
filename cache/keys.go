package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// derivedKeyLen bounds the derived suffix so resolved storage keys stay short.
const derivedKeyLen = 16

// Options is the closed set of request parameters that differentiate cached
// entries. Keeping the shape closed, rather than an arbitrary map, makes key
// derivation exhaustively testable.
type Options struct {
	TopK  int
	Page  int
	Limit int
}

// DeriveKey turns a (query, model, options) tuple into a short stable cache
// key suffix. Identical tuples always produce identical keys; the query text
// is taken as-is, with case and whitespace preserved. The hash only needs to
// keep distinct tuples apart for hit/miss correctness, not to be
// cryptographically meaningful, so the digest is truncated.
func DeriveKey(query, model string, opts Options) string {
	canonical := fmt.Sprintf("%s\x00%s\x00topk=%d|page=%d|limit=%d",
		query, model, opts.TopK, opts.Page, opts.Limit)

	digest := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(digest[:])[:derivedKeyLen]
}
