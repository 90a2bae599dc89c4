package batch

import (
	"context"
	"strings"
)

// enumerate materializes the full ordered key list of the working set
// by paging through the store listing with a marker cursor. The marker
// for each page is the last key of the previous one; a page with zero
// keys terminates the walk. The "directory marker" object some stores
// create under the prefix itself is discarded when it leads the first
// page. A listing failure discards everything accumulated so far.
func (b *Batch) enumerate(ctx context.Context, cfg config) ([]string, error) {
	prefix := cfg.prefix
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	var keys []string
	marker := cfg.marker
	firstPage := true

	for {
		page, err := b.client.ListPage(ctx, cfg.bucket, prefix, marker)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			break
		}

		marker = page[len(page)-1]

		if firstPage && page[0] == prefix {
			page = page[1:]
		}
		firstPage = false

		for _, key := range page {
			// Adjacent duplicates can show up when marker paging
			// overlaps; drop them.
			if len(keys) > 0 && keys[len(keys)-1] == key {
				continue
			}
			keys = append(keys, key)
		}
	}

	b.logger.WithField("bucket", cfg.bucket).
		WithField("prefix", prefix).
		Debugf("enumerated %d keys", len(keys))

	return keys, nil
}
