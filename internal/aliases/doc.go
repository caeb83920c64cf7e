// Package aliases collapses spelling variants and word-order permutations of a tune name.
//
// # Normalization
//
// [Normalize] lowercases a name, drops a leading "the ", removes every rune that is not a
// letter, digit or whitespace, and trims the result. Normalized forms are only compared,
// never stored.
//
// # Similarity
//
// Two names are similar when both normalize to non-empty strings and either
//   - their longest-matching-blocks [Ratio] is strictly greater than the threshold (0.8), or
//   - their sorted whitespace-separated tokens are equal ("Maggie Drowsy" / "Drowsy Maggie").
//
// Names that normalize to the empty string are never similar to anything, not even to each
// other, so blank or punctuation-only aliases always survive [Filter].
//
// # Filtering
//
// [Filter] is a greedy single pass. An alias is dropped when it is similar to the canonical
// name or to an alias already kept; otherwise it is kept. The first member of a cluster wins,
// and a dropped alias never absorbs later ones, so results depend on input order and are not
// a transitive clustering.
package aliases
