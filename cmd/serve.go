package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/Bitlatte/docindex/internal/site"
)

var serverPort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the output directory locally and regenerates on changes",
	Long: `The serve command regenerates every artifact, then serves the output
directory. It also watches the content and sidebar directories and
regenerates after a short quiet period whenever something changes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := prometheus.NewRegistry()
		s, err := newSite(reg)
		if err != nil {
			return err
		}
		s.Regenerate(site.OnServerStart)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if appConfig.Serve.Watch {
			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("failed to create file watcher: %w", err)
			}
			defer watcher.Close()

			debounce := time.Duration(appConfig.Serve.Debounce) * time.Millisecond
			go watch(ctx, watcher, debounce, func() { s.Regenerate(site.OnContentChange) })
			for _, root := range []string{appConfig.ContentDir, appConfig.SidebarDir} {
				addWatchTree(watcher, root)
			}
		}

		port := serverPort
		if !cmd.Flags().Changed("port") {
			port = appConfig.Serve.Port
		}
		e := newServer(s, reg)
		addr := fmt.Sprintf(":%d", port)
		logger.Info("serving site",
			slog.String("dir", appConfig.OutputDir),
			slog.String("url", "http://localhost"+addr),
		)

		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = e.Shutdown(shutdownCtx)
		}()
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
		return nil
	},
}

// newServer serves the output directory without caching, plus metrics and
// the live sidebar map.
func newServer(s *site.Site, reg *prometheus.Registry) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set("Cache-Control", "no-cache, no-store, must-revalidate")
			h.Set("Pragma", "no-cache")
			h.Set("Expires", "0")
			return next(c)
		}
	})

	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	e.GET("/_sidebar.json", func(c echo.Context) error {
		tree := s.Snapshot().Sidebar
		if tree == nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "not generated yet"})
		}
		return c.JSON(http.StatusOK, tree)
	})
	e.Static("/", s.Config().OutputDir)
	return e
}

// watch regenerates once events stop arriving for debounce. New directories
// are added to the watcher as they appear.
func watch(ctx context.Context, watcher *fsnotify.Watcher, debounce time.Duration, regenerate func()) {
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			logger.Debug("change detected", slog.String("file", event.Name), slog.String("op", event.Op.String()))
			if event.Has(fsnotify.Create) && isDir(event.Name) {
				if err := watcher.Add(event.Name); err != nil {
					logger.Warn("failed to watch new directory", slog.String("dir", event.Name), slog.Any("error", err))
				}
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, regenerate)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("watcher error", slog.Any("error", err))
		}
	}
}

func addWatchTree(watcher *fsnotify.Watcher, root string) {
	if !isDir(root) {
		logger.Info("directory not found, not watching", slog.String("dir", root))
		return
	}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("error walking directory", slog.String("path", path), slog.Any("error", err))
			return nil
		}
		if d.IsDir() {
			if err := watcher.Add(path); err != nil {
				logger.Warn("failed to watch directory", slog.String("dir", path), slog.Any("error", err))
			}
		}
		return nil
	})
	if err != nil {
		logger.Warn("error during initial directory walk", slog.String("dir", root), slog.Any("error", err))
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

func init() {
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 1313, "Port to serve the site on")
	rootCmd.AddCommand(serveCmd)
}
