package driver

import (
	"crypto/sha256"
	"fmt"

	"wscheck/internal/lexer"
	"wscheck/internal/source"
)

// Digest is a fixed 256-bit hash, compatible with source.File.Hash.
type Digest [32]byte

// combineDigest: H(content || part1 || part2 ...). Parts must come in a deterministic order.
func combineDigest(content Digest, parts ...[]byte) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, p := range parts {
		_, _ = h.Write(p)
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// syntaxFingerprint renders every field that changes how a file is lexed.
func syntaxFingerprint(syn *lexer.Syntax) []byte {
	if syn == nil {
		syn = lexer.Plain
	}
	return fmt.Appendf(nil, "%q|%q|%q|%+v|%q|%q|%t|%t",
		syn.Name, syn.LineComments, syn.DocLinePrefix, syn.BlockComments,
		syn.Quotes, syn.MultilineQuotes, syn.TripleQuotes, syn.Shebang)
}

// cacheKey identifies the check result of one file: content, lexing syntax,
// the payload schema and the diagnostic limit all take part.
func cacheKey(file *source.File, syn *lexer.Syntax, maxDiagnostics int) Digest {
	return combineDigest(Digest(file.Hash),
		fmt.Appendf(nil, "schema=%d|max=%d|", diskCacheSchemaVersion, maxDiagnostics),
		syntaxFingerprint(syn),
	)
}
