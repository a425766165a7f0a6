package tokenstore

import (
	"context"
	"fmt"

	"hrconsole/internal/platform/config"
	platformredis "hrconsole/internal/platform/redis"
)

// Open builds the store selected by cfg.TokenStore. The redis client is
// returned for health checks and pool metrics; it is nil for the file store.
func Open(ctx context.Context, cfg config.Config) (Store, *platformredis.Client, error) {
	switch cfg.TokenStore {
	case "", config.TokenStoreFile:
		return NewFile(cfg.TokenFile), nil, nil
	case config.TokenStoreRedis:
		client, err := platformredis.New(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, fmt.Errorf("open redis token store: %w", err)
		}
		return NewRedis(client, cfg.Redis.Key), client, nil
	default:
		return nil, nil, fmt.Errorf("unknown token store %q", cfg.TokenStore)
	}
}
