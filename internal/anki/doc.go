// Package anki exports translation history as Anki-importable CSV so
// phrases can be practiced as flashcards.
package anki
