package yaml

import "github.com/viant/dynval"

// Options represents value document options
type Options struct {
	// Aliases replaces well known type descriptors with short names, nil disables aliases
	Aliases *dynval.Aliases
	// Strict reports unknown document keys instead of skipping them
	Strict bool
	// Indent sets document indentation
	Indent int
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

// WithoutAliases writes every type as a descriptor mapping
func WithoutAliases() Option {
	return optionFn(func(o *Options) { o.Aliases = nil })
}

// WithStrict enables unknown key reporting
func WithStrict() Option {
	return optionFn(func(o *Options) { o.Strict = true })
}

// WithIndent sets document indentation
func WithIndent(indent int) Option {
	return optionFn(func(o *Options) { o.Indent = indent })
}

func newOptions(opts []Option) *Options {
	ret := &Options{Aliases: dynval.TypeAliases, Indent: 2}
	for _, opt := range opts {
		opt.apply(ret)
	}
	return ret
}
