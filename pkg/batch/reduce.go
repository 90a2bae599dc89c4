package batch

import "context"

// ReduceFunc folds one body or record into the running accumulator.
type ReduceFunc[T any] func(acc T, record, key string) (T, error)

// Reduce folds fn across every object body (or every record, in split
// mode) of b's working set in key order and, within an object, record
// order. A single accumulator is carried across the entire working set,
// so iteration is strictly sequential even within one object's records.
// A failure aborts with the zero value.
func Reduce[T any](ctx context.Context, b *Batch, initial T, fn ReduceFunc[T]) (T, error) {
	var zero T

	cfg, err := b.snapshot(fn != nil)
	if err != nil {
		return zero, err
	}

	keys, err := b.enumerate(ctx, cfg)
	if err != nil {
		return zero, err
	}

	acc := initial
	for _, key := range keys {
		body, err := b.getBody(ctx, cfg, key)
		if err != nil {
			return zero, err
		}

		if !cfg.splitMode {
			acc, err = fn(acc, body, key)
			if err != nil {
				return zero, err
			}
			continue
		}

		for _, record := range splitRecords(body, cfg.delimiter) {
			acc, err = fn(acc, record, key)
			if err != nil {
				return zero, err
			}
		}
	}

	return acc, nil
}
