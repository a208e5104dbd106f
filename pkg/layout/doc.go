// Package layout defines the maze layout produced by evaluating a script.
// A Layout is an ordered list of finished pieces; adjacency between pieces
// is not stored but derived from coincident ports.
package layout
