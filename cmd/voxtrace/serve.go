package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/voxtrace/voxtrace/internal/cache"
	"github.com/voxtrace/voxtrace/internal/logger"
	"github.com/voxtrace/voxtrace/internal/metrics"
	"github.com/voxtrace/voxtrace/internal/modelio"
	"github.com/voxtrace/voxtrace/internal/sceneio"
	"github.com/voxtrace/voxtrace/internal/storage"
	"github.com/voxtrace/voxtrace/internal/streamserver"
)

var (
	serveModelDir string
	serveAddr     string
	serveWatch    bool
	serveIssue    bool
)

var serveCmd = &cobra.Command{
	Use:   "serve <model.csv> [model2.csv ...]",
	Short: "Serve a scene over HTTP: /frame, /ws, /healthz, /metrics",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveModelDir, "model-dir", ".", "directory models are resolved against (local backend only)")
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "HTTP listen address")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "hot-reload the scene when a model CSV changes (local backend only)")
	serveCmd.Flags().BoolVar(&serveIssue, "issue-token", false, "print a bearer token for the configured JWT secret and exit")
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("serve")

	if serveIssue {
		auth := streamserver.NewAuthService(cfg.Security)
		token, expiresAt, err := auth.IssueToken("cli")
		if err != nil {
			return err
		}
		fmt.Printf("%s\n(expires %s)\n", token, expiresAt.Format(time.RFC3339))
		return nil
	}

	backend, err := openBackend(cfg, serveModelDir)
	if err != nil {
		return err
	}

	m := metrics.New()
	placements := sceneio.DefaultPlacements(args)
	result, err := sceneio.Build(context.Background(), backend, placements, m)
	if err != nil {
		return err
	}

	frameCache, err := cache.New(cfg.Cache)
	if err != nil {
		return err
	}
	defer frameCache.Close()

	lights := defaultLights()
	srv := streamserver.New(cfg, result.Scene, lights, frameCache, m)

	if serveWatch && cfg.Storage.Backend == "local" {
		watchAndReload(srv, backend, placements, m, log)
	}

	log.Info("serving %d SVO(s), %d BVH node(s) on %s", len(result.Scene.SVOs), len(result.Scene.BVH.Nodes), serveAddr)
	return srv.Run(serveAddr)
}

// watchAndReload starts an fsnotify watcher over the model directory
// and rebuilds the scene on every debounced CSV change, swapping it
// into the live server without interrupting requests already in
// flight against the old scene. A watcher start failure is logged and
// otherwise ignored — the serve command still runs against the
// initial scene.
func watchAndReload(srv *streamserver.Server, backend storage.Backend, placements []sceneio.Placement, m *metrics.Metrics, log *logger.Logger) {
	watcher, err := modelio.NewWatcher(serveModelDir, 500*time.Millisecond)
	if err != nil {
		log.Warn("model watcher disabled: %v", err)
		return
	}

	go func() {
		for range watcher.Changed() {
			log.Info("model change detected, rebuilding scene")
			result, err := sceneio.Build(context.Background(), backend, placements, m)
			if err != nil {
				log.Warn("scene rebuild failed: %v", err)
				continue
			}
			srv.SwapScene(result.Scene)
			log.Info("scene reloaded: %d SVO(s), %d BVH node(s)", len(result.Scene.SVOs), len(result.Scene.BVH.Nodes))
		}
	}()
}
