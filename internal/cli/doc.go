// Package cli defines the pidgix command tree, its flags and the viper
// configuration they are bound to.
package cli
