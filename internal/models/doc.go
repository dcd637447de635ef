// Package models lists the Gemini models visible to the configured API key
// and shows where the translation tier list stands against them.
package models
