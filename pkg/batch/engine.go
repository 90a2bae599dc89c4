package batch

import (
	"context"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/lakestream-io/prefixbatch/pkg/storage"
)

// EachFunc is applied to each object body (whole-object mode) or record
// (split mode) for side effects only.
type EachFunc func(key, record string) error

// MapFunc replaces each object body or record with its return value.
type MapFunc func(key, record string) (string, error)

// FilterFunc decides whether an object or record is kept.
type FilterFunc func(key, record string) (bool, error)

// ForEach applies fn to every object body, or to every record of every
// object in split mode, for side effects only. The first error aborts
// the operation; keys after the failing one are never fetched.
func (b *Batch) ForEach(ctx context.Context, fn EachFunc, opts ...Option) error {
	cfg, err := b.snapshot(fn != nil)
	if err != nil {
		return err
	}
	o := applyOptions(opts)

	keys, err := b.enumerate(ctx, cfg)
	if err != nil {
		return err
	}

	for _, key := range keys {
		body, err := b.getBody(ctx, cfg, key)
		if err != nil {
			return err
		}

		if !cfg.splitMode {
			if err := fn(key, body); err != nil {
				return err
			}
			continue
		}

		records := splitRecords(body, cfg.delimiter)
		if err := eachRecords(key, records, o.concurrent, fn); err != nil {
			return err
		}
	}

	return nil
}

// Map applies fn to every object body, or to every record of every
// object in split mode, and writes the result back: in place, or to
// target-prefix plus the original file name when a target is
// configured. Split-mode results are rejoined with the delimiter and
// written once per object. A write failure aborts the remaining keys.
func (b *Batch) Map(ctx context.Context, fn MapFunc, opts ...Option) error {
	cfg, err := b.snapshot(fn != nil)
	if err != nil {
		return err
	}
	o := applyOptions(opts)

	keys, err := b.enumerate(ctx, cfg)
	if err != nil {
		return err
	}

	for _, key := range keys {
		body, err := b.getBody(ctx, cfg, key)
		if err != nil {
			return err
		}

		var out string
		if !cfg.splitMode {
			out, err = fn(key, body)
			if err != nil {
				return err
			}
		} else {
			records := splitRecords(body, cfg.delimiter)
			mapped, err := mapRecords(key, records, o.concurrent, fn)
			if err != nil {
				return err
			}
			out = strings.Join(mapped, cfg.delimiter)
		}

		if err := b.writeBody(ctx, cfg, key, out); err != nil {
			return err
		}
	}

	return nil
}

// Filter applies pred to every object body or record.
//
// Whole-object mode: with a target configured, kept objects are copied
// to the target (file name preserved) and originals are untouched;
// without one, rejected objects are deleted from the source and kept
// objects are left in place. Deletions happen only after the predicate
// has passed over the whole working set, so a predicate failure deletes
// nothing.
//
// Split mode: each object's surviving records are rejoined and written,
// to the target if configured, else over the source key.
func (b *Batch) Filter(ctx context.Context, pred FilterFunc, opts ...Option) error {
	cfg, err := b.snapshot(pred != nil)
	if err != nil {
		return err
	}
	o := applyOptions(opts)

	keys, err := b.enumerate(ctx, cfg)
	if err != nil {
		return err
	}

	if cfg.splitMode {
		return b.filterRecordsMode(ctx, cfg, o, keys, pred)
	}

	var rejected []string
	for _, key := range keys {
		body, err := b.getBody(ctx, cfg, key)
		if err != nil {
			return err
		}

		keep, err := pred(key, body)
		if err != nil {
			return err
		}

		switch {
		case keep && cfg.target != nil:
			dst := targetKey(cfg.target, key)
			if err := b.client.Copy(ctx, cfg.bucket, key, cfg.target.Bucket, dst); err != nil {
				return err
			}
		case !keep && cfg.target == nil:
			rejected = append(rejected, key)
		}
	}

	if len(rejected) > 0 {
		return b.client.DeleteMany(ctx, cfg.bucket, rejected)
	}
	return nil
}

func (b *Batch) filterRecordsMode(ctx context.Context, cfg config, o opOptions, keys []string, pred FilterFunc) error {
	for _, key := range keys {
		body, err := b.getBody(ctx, cfg, key)
		if err != nil {
			return err
		}

		records := splitRecords(body, cfg.delimiter)
		kept, err := filterRecords(key, records, o.concurrent, pred)
		if err != nil {
			return err
		}

		out := strings.Join(kept, cfg.delimiter)
		if err := b.writeBody(ctx, cfg, key, out); err != nil {
			return err
		}
	}

	return nil
}

// Clean removes empty objects (or empty records, in split mode).
// Equivalent to Filter with a predicate keeping non-empty bodies.
func (b *Batch) Clean(ctx context.Context, opts ...Option) error {
	return b.Filter(ctx, func(_, record string) (bool, error) {
		return len(record) > 0, nil
	}, opts...)
}

// Join fetches every object body in the working set and concatenates
// them with delimiter (default newline). Nothing is written back.
func (b *Batch) Join(ctx context.Context, delimiter string) (string, error) {
	cfg, err := b.snapshot(true)
	if err != nil {
		return "", err
	}
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}

	keys, err := b.enumerate(ctx, cfg)
	if err != nil {
		return "", err
	}

	bodies := make([]string, 0, len(keys))
	for _, key := range keys {
		body, err := b.getBody(ctx, cfg, key)
		if err != nil {
			return "", err
		}
		bodies = append(bodies, body)
	}

	return strings.Join(bodies, delimiter), nil
}

// List returns the ordered key list of the working set.
func (b *Batch) List(ctx context.Context) ([]string, error) {
	cfg, err := b.snapshot(true)
	if err != nil {
		return nil, err
	}
	return b.enumerate(ctx, cfg)
}

// Write stores body at an explicit location: an object store put for a
// store location, a local file write otherwise. The configured encoding
// applies either way.
func (b *Batch) Write(ctx context.Context, location, body string) error {
	if b.err != nil {
		return b.err
	}

	data, err := encodeBody(body, b.cfg.encoding)
	if err != nil {
		return err
	}

	loc := storage.ParseLocation(location)
	if loc.IsStore() {
		return b.client.Put(ctx, loc.Bucket, loc.Prefix, data)
	}

	return afero.WriteFile(b.fs, loc.Path, data, 0o644)
}

// Get fetches a single object by its store location string, applying
// the configured transformer and encoding.
func (b *Batch) Get(ctx context.Context, location string) (string, error) {
	if b.err != nil {
		return "", b.err
	}

	loc := storage.ParseLocation(location)
	if !loc.IsStore() {
		return "", storage.NewError("get", location, storage.ErrNotStoreLocation)
	}

	cfg := config{
		bucket:    loc.Bucket,
		encoding:  b.cfg.encoding,
		transform: b.cfg.transform,
	}
	return b.getBody(ctx, cfg, loc.Prefix)
}

// getBody fetches one object and runs it through the configured
// transformer and encoding.
func (b *Batch) getBody(ctx context.Context, cfg config, key string) (string, error) {
	raw, err := b.client.Get(ctx, cfg.bucket, key)
	if err != nil {
		return "", err
	}

	if cfg.transform != nil {
		raw, err = cfg.transform(raw)
		if err != nil {
			return "", err
		}
	}

	return decodeBody(raw, cfg.encoding)
}

// writeBody writes an object's new body in place, or to the target
// location with the original file name when a target is configured.
func (b *Batch) writeBody(ctx context.Context, cfg config, key, body string) error {
	data, err := encodeBody(body, cfg.encoding)
	if err != nil {
		return err
	}

	if cfg.target != nil {
		return b.client.Put(ctx, cfg.target.Bucket, targetKey(cfg.target, key), data)
	}
	return b.client.Put(ctx, cfg.bucket, key, data)
}

// targetKey joins the target prefix with the file name of the original
// key.
func targetKey(target *storage.Location, key string) string {
	name := storage.Filename(key)
	if target.Prefix == "" {
		return name
	}
	return strings.TrimSuffix(target.Prefix, "/") + "/" + name
}

// eachRecords drives fn over one object's records, either sequentially
// or fanned out with a join barrier before the caller advances.
func eachRecords(key string, records []string, concurrent bool, fn EachFunc) error {
	if !concurrent {
		for _, record := range records {
			if err := fn(key, record); err != nil {
				return err
			}
		}
		return nil
	}

	var g errgroup.Group
	for _, record := range records {
		record := record
		g.Go(func() error {
			return fn(key, record)
		})
	}
	return g.Wait()
}

// mapRecords maps one object's records, preserving record order in the
// result regardless of execution order.
func mapRecords(key string, records []string, concurrent bool, fn MapFunc) ([]string, error) {
	out := make([]string, len(records))

	if !concurrent {
		for i, record := range records {
			mapped, err := fn(key, record)
			if err != nil {
				return nil, err
			}
			out[i] = mapped
		}
		return out, nil
	}

	var g errgroup.Group
	for i, record := range records {
		i, record := i, record
		g.Go(func() error {
			mapped, err := fn(key, record)
			if err != nil {
				return err
			}
			out[i] = mapped
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// filterRecords evaluates pred over one object's records and assembles
// the complete surviving sequence, in order, before returning. The
// result settles only once every record has been decided.
func filterRecords(key string, records []string, concurrent bool, pred FilterFunc) ([]string, error) {
	keep := make([]bool, len(records))

	if !concurrent {
		for i, record := range records {
			ok, err := pred(key, record)
			if err != nil {
				return nil, err
			}
			keep[i] = ok
		}
	} else {
		var g errgroup.Group
		for i, record := range records {
			i, record := i, record
			g.Go(func() error {
				ok, err := pred(key, record)
				if err != nil {
					return err
				}
				keep[i] = ok
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	kept := make([]string, 0, len(records))
	for i, record := range records {
		if keep[i] {
			kept = append(kept, record)
		}
	}
	return kept, nil
}
