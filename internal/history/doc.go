// Package history keeps the most recent translations and the user's tone
// preference in a local SQLite database.
package history
