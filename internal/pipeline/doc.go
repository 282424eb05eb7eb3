// Package pipeline turns a video or playlist URL into a deck.
//
// A Runner resolves the input into video IDs, prefetches their transcripts
// with bounded concurrency, runs the batch scheduler over each transcript in
// input order and exports every accepted question as one deck. Videos without
// a transcript are skipped. A run that produces no cards is reported in the
// Summary, not as an error.
package pipeline
