package mocks

// CallLog records arguments of each call of a mocked method.
type CallLog[T any] []T

func (l CallLog[T]) Times() uint {
	return uint(len(l))
}

// Last returns the arguments of the last call.
//
// ok is false when it has never been called.
func (l CallLog[T]) Last() (args T, ok bool) {
	if len(l) == 0 {
		return args, false
	}
	return l[len(l)-1], true
}
