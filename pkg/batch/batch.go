// Package batch provides stream-like batch processing over the set of
// objects stored under a common key prefix in an object store. A Batch
// is configured through a fluent surface (Context, Marker, Encode,
// Split, Target, Transform) and then driven by one of the iteration
// operations (ForEach, Map, Filter, Clean, Join, List, Reduce).
//
// Cross-key iteration is always sequential. In split mode the records
// of a single object may be processed concurrently (see Concurrent),
// bounding in-flight work to one object's record set at a time.
package batch

import (
	"github.com/spf13/afero"

	"github.com/lakestream-io/prefixbatch/pkg/logging"
	"github.com/lakestream-io/prefixbatch/pkg/storage"
)

// DefaultDelimiter separates records when Split is called without an
// explicit delimiter.
const DefaultDelimiter = "\n"

// TransformFunc post-processes a raw object body after fetch, before
// decoding and splitting.
type TransformFunc func([]byte) ([]byte, error)

// config is the immutable per-operation snapshot of the fluent
// configuration surface. The builder mutates its own copy; every
// operation reads a value copy taken at entry and never consults the
// builder again mid-flight.
type config struct {
	bucket     string
	prefix     string
	hasContext bool

	marker    string
	delimiter string
	splitMode bool
	encoding  string
	target    *storage.Location
	transform TransformFunc
}

// Batch is a batch-processing handle over one working context. It is
// not safe for concurrent use: configure it, then drive one operation
// at a time.
type Batch struct {
	client storage.ObjectClient
	fs     afero.Fs
	logger logging.Interface

	cfg config
	err error
}

// BatchOption configures a Batch at construction time.
type BatchOption func(*Batch)

// WithLogger sets the logger used by batch operations.
func WithLogger(logger logging.Interface) BatchOption {
	return func(b *Batch) { b.logger = logger }
}

// WithFs sets the filesystem used for local-file output sinks.
func WithFs(fs afero.Fs) BatchOption {
	return func(b *Batch) { b.fs = fs }
}

// New creates a Batch over the given object client.
func New(client storage.ObjectClient, opts ...BatchOption) *Batch {
	b := &Batch{
		client: client,
		fs:     afero.NewOsFs(),
		logger: logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Context sets the working context from a store location string of the
// form s3://bucket/prefix. A location that does not resolve to a store
// location is a configuration error, surfaced by the next operation
// call before any I/O.
func (b *Batch) Context(location string) *Batch {
	loc := storage.ParseLocation(location)
	if !loc.IsStore() {
		b.fail(storage.NewError("context", location, storage.ErrNotStoreLocation))
		return b
	}

	b.cfg.bucket = loc.Bucket
	b.cfg.prefix = loc.Prefix
	b.cfg.hasContext = true
	return b
}

// Marker sets the key after which enumeration resumes.
func (b *Batch) Marker(key string) *Batch {
	b.cfg.marker = key
	return b
}

// Encode sets the body character encoding by IANA name. The default is
// UTF-8. An unknown encoding is a configuration error.
func (b *Batch) Encode(encoding string) *Batch {
	if _, err := lookupEncoding(encoding); err != nil {
		b.fail(storage.NewError("encode", encoding, err))
		return b
	}

	b.cfg.encoding = encoding
	return b
}

// Split switches to split-record mode: each object's body is decomposed
// into ordered records on delimiter before the user function is
// applied. An empty delimiter selects the default newline.
func (b *Batch) Split(delimiter string) *Batch {
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}

	b.cfg.delimiter = delimiter
	b.cfg.splitMode = true
	return b
}

// Target redirects write-back of Map and Filter results to an alternate
// store location instead of overwriting in place. A location that does
// not resolve to a store location is a configuration error.
func (b *Batch) Target(location string) *Batch {
	loc := storage.ParseLocation(location)
	if !loc.IsStore() {
		b.fail(storage.NewError("target", location, storage.ErrNotStoreLocation))
		return b
	}

	b.cfg.target = &loc
	return b
}

// Transform installs a body post-fetch transformer applied to the raw
// bytes of every fetched object.
func (b *Batch) Transform(fn TransformFunc) *Batch {
	b.cfg.transform = fn
	return b
}

// fail records the first configuration error; later ones are dropped.
func (b *Batch) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// snapshot validates the configuration and returns the immutable config
// value for one operation. fnOK is false when the operation was handed
// a nil user function, which is rejected here before any I/O.
func (b *Batch) snapshot(fnOK bool) (config, error) {
	if b.err != nil {
		return config{}, b.err
	}
	if !b.cfg.hasContext {
		return config{}, storage.ErrNoContext
	}
	if !fnOK {
		return config{}, storage.ErrNilFunc
	}
	return b.cfg, nil
}
