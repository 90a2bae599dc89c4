package batch

import (
	"github.com/spf13/afero"
	"go.uber.org/fx"

	"github.com/lakestream-io/prefixbatch/pkg/logging"
	"github.com/lakestream-io/prefixbatch/pkg/storage"
)

// ProvideBatch creates a Batch wired to the injected object client.
func ProvideBatch(client storage.ObjectClient, logger logging.Interface) *Batch {
	return New(client, WithLogger(logger), WithFs(afero.NewOsFs()))
}

// Module provides a Batch as an fx module. It expects an ObjectClient
// and logging.Interface in the container (see the storage and logging
// modules).
var Module = fx.Provide(ProvideBatch)
