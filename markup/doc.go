// Package markup provides Value, a holder that keeps raw markup and its
// rendered HTML in sync through a pluggable Formatter.
//
// Rendering is eager: New and SetRaw run the bound formatter immediately and
// either update both halves of the pair or neither. Rendered output is exposed
// read-only as SafeHTML. Persisted pairs are restored with Load or JSON
// decoding, which never call the formatter.
package markup
