package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/youruser/boothapp/internal/api"
	"github.com/youruser/boothapp/internal/frames"
	"github.com/youruser/boothapp/internal/store"
	"github.com/youruser/boothapp/internal/strip"
	"github.com/youruser/boothapp/internal/util"
)

var (
	presetsPath string
	dbPath      string
	addr        string
	maxPhotos   int
)

var rootCmd = &cobra.Command{
	Use:   "boothapp",
	Short: "Photo booth strip compositor and frame admin API",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the booth HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// loadPresets reads the preset table once at startup (best-effort).
func loadPresets() frames.Presets {
	p, err := frames.LoadPresets(presetsPath)
	if err != nil {
		klog.Warningf("failed to load presets from %s, using built-in table: %v", presetsPath, err)
		return frames.DefaultPresets()
	}
	klog.Infof("loaded %d presets from %s: %v", p.Len(), presetsPath, p.Keys())
	return p
}

func serve(ctx context.Context) error {
	presets := loadPresets()

	if err := util.EnsureParentDir(dbPath); err != nil {
		return fmt.Errorf("data dir: %w", err)
	}
	db, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	r := gin.Default()
	api.RegisterRoutes(r, &api.Server{
		DB:        db,
		Presets:   presets,
		Composer:  strip.NewComposer(strip.Options{Presets: presets}),
		MaxPhotos: maxPhotos,
	})

	srv := &http.Server{Addr: addr, Handler: r}
	errc := make(chan error, 1)
	go func() {
		klog.Infof("starting server on http://%s", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		klog.Infof("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func init() {
	klog.InitFlags(nil)
	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
	rootCmd.PersistentFlags().StringVar(&presetsPath, "presets", envOr("BOOTH_PRESETS", "data/presets.csv"), "CSV of named frame presets")

	serveCmd.Flags().StringVar(&addr, "addr", ":"+envOr("PORT", "8080"), "listen address")
	serveCmd.Flags().StringVar(&dbPath, "db", envOr("BOOTH_DB", "data/booth.db"), "SQLite database path")
	serveCmd.Flags().IntVar(&maxPhotos, "max-photos", api.DefaultMaxPhotos, "maximum photos per strip")

	rootCmd.AddCommand(serveCmd, composeCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer klog.Flush()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		klog.Exitf("%v", err)
	}
}
