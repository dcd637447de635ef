// Package translation provides English <-> Nigerian Pidgin translation
// through hosted text-generation models. A Translator walks an ordered list
// of model tiers and returns the first non-empty answer.
package translation
