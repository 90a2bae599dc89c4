package batch

// Option configures a single batch operation.
type Option func(*opOptions)

type opOptions struct {
	concurrent bool
}

// Concurrent dispatches the user function for all records of one
// object's split concurrently, joining before the object's result is
// written back. It has no effect outside split mode, and never spans
// keys: cross-key iteration stays sequential either way.
func Concurrent() Option {
	return func(o *opOptions) { o.concurrent = true }
}

func applyOptions(opts []Option) opOptions {
	var o opOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
