// Package mesh is the polygon-mesh layer under every marble-maze piece.
//
// A Mesh is a list of world-space vertices and a list of faces, each face a
// counter-clockwise (seen from outside) loop of vertex indices. Topology is
// implicit: two faces are adjacent when they share an undirected edge, and an
// edge used by a single face lies on a boundary loop. The editing operations
// (inset, delete, bisect, vertex transforms) keep shared vertices shared so
// that boundary loops stay countable after every step.
package mesh
