package kvstore

import (
	"fmt"
	"log/slog"
	"time"
)

const connectTimeout = 5 * time.Second

func NewStore(storeType, address string) (store Store, err error) {
	switch storeType {
	case "redis":
		store, err = NewRedisStore(address)
		if err != nil {
			return nil, err
		}
	case "memory":
		store = NewMemoryStore()
	default:
		return nil, fmt.Errorf("unsupported key-value store type: %s", storeType)
	}

	slog.Info("key-value store initialized", "type", storeType)
	return store, nil
}
