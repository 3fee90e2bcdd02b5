// Package conv provides the coercion rules used when a mapped value has to be
// assigned to a differently typed member or parameter.
// It covers implicit numeric widening, checked narrowing between every pair of
// numeric kinds, locale-invariant string parsing into native types and the
// canonical round-trip string forms of native types.
package conv
