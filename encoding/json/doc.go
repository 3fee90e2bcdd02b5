// Package json encodes dynamic values as JSON documents with gojay.
//
// A value is written as an object with an optional Type (descriptor object or alias) followed by one payload key:
// Value for scalars, DynamicValue for a nested value, Items for scalar items, DynamicItems for nested values
// and Properties for structured values. A value without payload key is a null marker.
// Values reachable more than once carry Id on first occurrence and are written as Ref afterwards.
package json
