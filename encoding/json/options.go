package json

import "github.com/viant/dynval"

// Options represents value document options
type Options struct {
	// Aliases replaces well known type descriptors with short names, nil disables aliases
	Aliases *dynval.Aliases
	// Strict reports unknown document keys instead of skipping them
	Strict bool
}

// Option represents value document option
type Option interface {
	apply(*Options)
}

type optionFn func(*Options)

func (o optionFn) apply(opts *Options) { o(opts) }

// WithAliases sets type alias table
func WithAliases(aliases *dynval.Aliases) Option {
	return optionFn(func(o *Options) { o.Aliases = aliases })
}

// WithoutAliases writes every type as a descriptor object
func WithoutAliases() Option {
	return optionFn(func(o *Options) { o.Aliases = nil })
}

// WithStrict enables unknown key reporting
func WithStrict() Option {
	return optionFn(func(o *Options) { o.Strict = true })
}

func newOptions(opts []Option) *Options {
	ret := &Options{Aliases: dynval.TypeAliases}
	for _, opt := range opts {
		opt.apply(ret)
	}
	return ret
}
