// Package batch reads files with one text per line for bulk translation.
package batch
