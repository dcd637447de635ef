// Package processor contains the core logic behind the pidgix commands. It
// builds the tiered translator from configuration, records results in the
// history store, renders speech and handles history export and archiving.
// This package serves as the main coordinator between all other components.
package processor
