// Package archive moves old history databases out of the way.
package archive
