// Package recognize turns a word raster into ranked dictionary candidates and
// learns new exemplars from confirmed words.
//
// # Pipeline
//
// Engine exposes the four entry points a front end calls in order:
//
//  1. SegmentAndNormalize cuts the word into slots and maps each slot onto
//     the canonical square as an ink mask.
//  2. BuildConfidenceMappings compares every slot mask with every exemplar
//     of every letter and keeps the best percentage per letter.
//  3. RankWordCandidates sums slot scores along each dictionary word of the
//     right length and returns the best words.
//  4. ConfirmWord stores the raw slots as new exemplars of the confirmed
//     letters and adds the word to the dictionary if it is new.
//
// Session wraps the same calls in an explicit state machine:
//
//	Idle -> Captured -> Segmented -> Normalized -> Matched -> Ranked ->
//	Scored -> AwaitingConfirmation -> Confirmed -> Learned
//
// with Discarded reachable from any waiting state.
//
// # Scoring
//
// Similarity is the share of mask positions on which two masks agree,
// background included, as a percentage. Because most of a canonical mask is
// background, sparse glyphs score higher against each other than dense ones.
//
// Ties are broken deterministically: letters ascending within a confidence
// mapping, words ascending within a candidate list.
//
// # Concurrency
//
// Slots are matched by a bounded set of goroutines. Results always come back
// in slot order, and the progress callback is never called concurrently.
package recognize
