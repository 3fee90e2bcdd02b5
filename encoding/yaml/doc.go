// Package yaml encodes dynamic values as YAML documents with yaml.v3 nodes.
//
// Document keys follow the json package. Values reachable more than once are anchored
// on first occurrence and written as aliases afterwards.
package yaml
