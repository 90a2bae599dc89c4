package batch

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakestream-io/prefixbatch/pkg/storage"
)

func TestContextRejectsLocalPath(t *testing.T) {
	client := newFakeClient(100)

	err := New(client).Context("/tmp/not-a-store").ForEach(context.Background(),
		func(_, _ string) error { return nil })

	require.ErrorIs(t, err, storage.ErrNotStoreLocation)
	assert.Zero(t, client.listCalls, "a config error must surface before any store call")
	assert.Empty(t, client.getCalls)
}

func TestTargetRejectsLocalPath(t *testing.T) {
	client := newFakeClient(100)

	err := New(client).Context("s3://bucket/logs").Target("out/local").
		Map(context.Background(), func(_, body string) (string, error) { return body, nil })

	require.ErrorIs(t, err, storage.ErrNotStoreLocation)
}

func TestFirstConfigErrorWins(t *testing.T) {
	client := newFakeClient(100)

	b := New(client).Context("bad-context").Target("also-bad")
	_, err := b.List(context.Background())

	var serr *storage.Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "context", serr.Op)
}

func TestOperationWithoutContextFails(t *testing.T) {
	client := newFakeClient(100)

	_, err := New(client).List(context.Background())
	require.ErrorIs(t, err, storage.ErrNoContext)
}

func TestEncodeRejectsUnknownEncoding(t *testing.T) {
	client := newFakeClient(100)

	_, err := New(client).Context("s3://bucket/logs").Encode("klingon-8").List(context.Background())
	require.Error(t, err)
	assert.Zero(t, client.listCalls)
}

func TestEncodeDecodesLatin1Bodies(t *testing.T) {
	client := newFakeClient(100)
	// 0xE9 is "é" in ISO-8859-1 and invalid on its own in UTF-8.
	client.seed("bucket", map[string]string{
		"logs/1": "caf\xe9",
	})

	var seen string
	err := New(client).Context("s3://bucket/logs").Encode("ISO-8859-1").
		ForEach(context.Background(), func(_, body string) error {
			seen = body
			return nil
		})

	require.NoError(t, err)
	assert.Equal(t, "café", seen)
}

func TestEncodeRoundTripsOnWriteBack(t *testing.T) {
	client := newFakeClient(100)
	client.seed("bucket", map[string]string{
		"logs/1": "caf\xe9",
	})

	err := New(client).Context("s3://bucket/logs").Encode("ISO-8859-1").
		Map(context.Background(), func(_, body string) (string, error) {
			return body, nil
		})
	require.NoError(t, err)

	body, _ := client.body("bucket", "logs/1")
	assert.Equal(t, "caf\xe9", body, "write-back must re-encode to the configured charset")
}

func TestWriteToLocalFile(t *testing.T) {
	client := newFakeClient(100)
	fs := afero.NewMemMapFs()

	b := New(client, WithFs(fs))
	err := b.Write(context.Background(), "/out/result.txt", "hello")
	require.NoError(t, err)

	data, err := afero.ReadFile(fs, "/out/result.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestWriteToStoreLocation(t *testing.T) {
	client := newFakeClient(100)

	err := New(client).Write(context.Background(), "s3://bucket/out/result.txt", "hello")
	require.NoError(t, err)

	body, ok := client.body("bucket", "out/result.txt")
	require.True(t, ok)
	assert.Equal(t, "hello", body)
}

func TestGetByLocation(t *testing.T) {
	client := newFakeClient(100)
	client.seed("bucket", map[string]string{
		"logs/a.txt": "hello",
	})

	body, err := New(client).Get(context.Background(), "s3://bucket/logs/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", body)

	_, err = New(client).Get(context.Background(), "/local/path")
	require.ErrorIs(t, err, storage.ErrNotStoreLocation)
}

func TestSnapshotIsImmutableDuringOperation(t *testing.T) {
	client := newFakeClient(100)
	client.seed("bucket", map[string]string{
		"logs/1": "a",
		"logs/2": "b",
	})

	b := New(client).Context("s3://bucket/logs")

	var seen []string
	err := b.ForEach(context.Background(), func(key, _ string) error {
		// Mutating the builder mid-operation must not affect the run.
		b.Split(",").Marker("zzz")
		seen = append(seen, key)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"logs/1", "logs/2"}, seen)
}
