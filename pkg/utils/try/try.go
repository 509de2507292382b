// Package try turns (value, error) pairs into one-liners.
//
//	conf := try.To(configs.Load(path)).OrFatal(logger)
package try

// Fataler is something having method `Fatal`, like *testing.T or *log.Logger.
type Fataler interface {
	Fatal(...any)
}

// Either holds a result of a function: a value or an error.
//
// Either with nil error is "ok". Otherwise "no good", and its value is not valid.
type Either[T any] interface {
	// Get returns (value, nil) when ok, or (zero value, error).
	Get() (T, error)

	// OrFatal returns the value when ok.
	//
	// Otherwise, it calls ftl.Fatal(err).
	// When ftl has method `Helper()` (*testing.T does), it is called before `Fatal`.
	OrFatal(ftl Fataler) T

	// OrDefault returns the value when ok, or d.
	OrDefault(d T) T
}

func To[T any](value T, err error) Either[T] {
	if err == nil {
		return ok[T]{value}
	}
	return ng[T]{err}
}

// Map converts the value of ok Either. no-good Either is passed through.
func Map[T any, R any](e Either[T], mapper func(T) R) Either[R] {
	val, err := e.Get()
	if err != nil {
		return ng[R]{err}
	}
	return ok[R]{mapper(val)}
}

type ok[T any] struct {
	value T
}

func (o ok[T]) Get() (T, error) {
	return o.value, nil
}

func (o ok[T]) OrFatal(Fataler) T {
	return o.value
}

func (o ok[T]) OrDefault(T) T {
	return o.value
}

type ng[T any] struct {
	err error
}

func (n ng[T]) Get() (T, error) {
	return *new(T), n.err
}

func (n ng[T]) OrFatal(ftl Fataler) T {
	if h, ok := ftl.(interface{ Helper() }); ok {
		h.Helper()
	}
	ftl.Fatal(n.err)
	return *new(T)
}

func (n ng[T]) OrDefault(d T) T {
	return d
}
