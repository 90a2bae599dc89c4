package batch

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/lakestream-io/prefixbatch/pkg/storage"
)

// fakeClient is an in-memory ObjectClient recording every call, so
// tests can assert on side-effect order and counts.
type fakeClient struct {
	mu       sync.Mutex
	objects  map[string]map[string]string
	pageSize int

	getCalls  []string
	putCalls  []string
	copyCalls []string
	deleted   []string
	listCalls int

	getErr  map[string]error
	putErr  map[string]error
	listErr error
}

func newFakeClient(pageSize int) *fakeClient {
	return &fakeClient{
		objects:  make(map[string]map[string]string),
		pageSize: pageSize,
		getErr:   make(map[string]error),
		putErr:   make(map[string]error),
	}
}

func (f *fakeClient) seed(bucket string, objects map[string]string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.objects[bucket] == nil {
		f.objects[bucket] = make(map[string]string)
	}
	for k, v := range objects {
		f.objects[bucket][k] = v
	}
}

func (f *fakeClient) body(bucket, key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	body, ok := f.objects[bucket][key]
	return body, ok
}

func (f *fakeClient) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.getCalls = append(f.getCalls, key)
	if err := f.getErr[key]; err != nil {
		return nil, err
	}

	body, ok := f.objects[bucket][key]
	if !ok {
		return nil, storage.NewError("get", bucket+"/"+key, storage.ErrNotFound)
	}
	return []byte(body), nil
}

func (f *fakeClient) Put(ctx context.Context, bucket, key string, body []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.putCalls = append(f.putCalls, key)
	if err := f.putErr[key]; err != nil {
		return err
	}

	if f.objects[bucket] == nil {
		f.objects[bucket] = make(map[string]string)
	}
	f.objects[bucket][key] = string(body)
	return nil
}

func (f *fakeClient) Copy(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.copyCalls = append(f.copyCalls, srcKey+" -> "+dstBucket+"/"+dstKey)

	body, ok := f.objects[srcBucket][srcKey]
	if !ok {
		return storage.NewError("copy", srcBucket+"/"+srcKey, storage.ErrNotFound)
	}
	if f.objects[dstBucket] == nil {
		f.objects[dstBucket] = make(map[string]string)
	}
	f.objects[dstBucket][dstKey] = body
	return nil
}

func (f *fakeClient) Delete(ctx context.Context, bucket, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.deleted = append(f.deleted, key)
	delete(f.objects[bucket], key)
	return nil
}

func (f *fakeClient) DeleteMany(ctx context.Context, bucket string, keys []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, key := range keys {
		f.deleted = append(f.deleted, key)
		delete(f.objects[bucket], key)
	}
	return nil
}

func (f *fakeClient) ListPage(ctx context.Context, bucket, prefix, marker string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}

	var all []string
	for key := range f.objects[bucket] {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix && key > marker {
			all = append(all, key)
		}
	}
	sort.Strings(all)

	if len(all) > f.pageSize {
		all = all[:f.pageSize]
	}
	return all, nil
}

var errBoom = fmt.Errorf("boom")
