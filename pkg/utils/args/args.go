package args

// Flag is a flag.Value which parses its argument with a parser function.
type Flag[T interface{ String() string }] struct {
	value T
	parse func(string) (T, error)
	given bool
}

func (f *Flag[T]) String() string {
	if !f.given {
		return ""
	}
	return f.value.String()
}

func (f *Flag[T]) Set(s string) error {
	v, err := f.parse(s)
	if err != nil {
		return err
	}
	f.given = true
	f.value = v
	return nil
}

// Value returns the parsed value, or the default when the flag is not given.
func (f *Flag[T]) Value() T {
	return f.value
}

// IsSet reports whether the flag has been set by the command line.
// nil Flag is not set.
func (f *Flag[T]) IsSet() bool {
	return f != nil && f.given
}

// Parser builds a Flag with parse.
func Parser[T interface{ String() string }](parse func(string) (T, error)) *Flag[T] {
	return &Flag[T]{parse: parse}
}

// WithDefault builds a Flag with parse which has the value def until it is set.
func WithDefault[T interface{ String() string }](parse func(string) (T, error), def T) *Flag[T] {
	return &Flag[T]{parse: parse, value: def}
}
