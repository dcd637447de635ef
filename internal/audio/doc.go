// Package audio renders translated text as speech. Pidgin output goes to a
// Gemini text-to-speech model; device-local synthesis through espeak-ng
// covers English output and stands in when the remote model fails.
package audio
