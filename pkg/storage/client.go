package storage

import "context"

// ObjectClient is the narrow transport boundary to the object store.
// All batch iteration is written against this interface; the S3
// implementation below is the production one, tests substitute an
// in-memory fake.
type ObjectClient interface {
	// Get fetches the full body of an object.
	Get(ctx context.Context, bucket, key string) ([]byte, error)

	// Put stores body as the object at key, replacing any previous body.
	Put(ctx context.Context, bucket, key string, body []byte) error

	// Copy copies an object within or across buckets.
	Copy(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey string) error

	// Delete removes a single object.
	Delete(ctx context.Context, bucket, key string) error

	// DeleteMany removes a set of objects, aggregating per-key failures.
	DeleteMany(ctx context.Context, bucket string, keys []string) error

	// ListPage returns one page of keys under prefix, lexicographically
	// ordered, starting strictly after marker. An empty page signals the
	// end of the listing.
	ListPage(ctx context.Context, bucket, prefix, marker string) ([]string, error)
}
