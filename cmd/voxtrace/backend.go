package main

import (
	"github.com/voxtrace/voxtrace/internal/config"
	"github.com/voxtrace/voxtrace/internal/storage"
)

// openBackend resolves the storage.Backend named by cfg.Storage,
// overriding the local path with modelDir when one was passed on the
// command line (local backend only — cloud backends resolve keys
// against their configured bucket/prefix regardless).
func openBackend(cfg *config.Config, modelDir string) (storage.Backend, error) {
	storageCfg := cfg.Storage
	if modelDir != "" && (storageCfg.Backend == "" || storageCfg.Backend == "local") {
		storageCfg.Backend = "local"
		storageCfg.LocalPath = modelDir
	}
	return storage.NewFromConfig(storageCfg)
}
