// Package deck writes generated questions as an Anki deck.
//
// The deck uses Anki's plain-text import format: a tab-separated file whose
// header lines tell Anki the separator, the deck name and which column holds
// the note GUID. GUIDs are derived from the card content, so importing a
// regenerated deck updates existing notes instead of duplicating them.
//
// Every export also writes a JSON mirror of the questions next to the deck,
// with the same base name and a .json extension.
package deck
