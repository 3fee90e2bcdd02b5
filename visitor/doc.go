// Package visitor offers reflection-backed visitors for the container shapes a mapped
// object graph can hold: slices, arrays, iterator sequences, maps and structs.
package visitor
