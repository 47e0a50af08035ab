// Package cli implements the boligpris commands.
package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/rewired-gh/boligpris/internal/chart"
	"github.com/rewired-gh/boligpris/internal/config"
	"github.com/rewired-gh/boligpris/internal/history"
	"github.com/rewired-gh/boligpris/internal/logger"
	"github.com/rewired-gh/boligpris/internal/query"
	"github.com/rewired-gh/boligpris/internal/ssb"
	"github.com/rewired-gh/boligpris/internal/storage"
)

var (
	configPath string
	cfg        *config.Config
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:               "boligpris",
	Short:             "Norwegian housing price index by quarter",
	Long:              "Query SSB table 07241 for the housing price index over a range of quarters, chart it and keep a history of searches.",
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: built-in defaults and BOLIGPRIS_* env)")
}

// Execute runs the root command.
func Execute() error {
	return RootCmd.Execute()
}

func loadConfig(cmd *cobra.Command, args []string) error {
	c, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	logger.Init(c.Logging.Level, c.Logging.Format)
	if configPath != "" {
		logger.Debug("Configuration loaded from %s", configPath)
	}
	cfg = c
	return nil
}

func openStore() (storage.Store, error) {
	return storage.Open(storage.Options{
		Backend:         cfg.Storage.Backend,
		FilePath:        cfg.Storage.FilePath,
		SQLitePath:      cfg.Storage.SQLitePath,
		FilePermissions: 0o644,
		DirPermissions:  0o755,
	})
}

func openRecorder() (*history.Recorder, storage.Store, error) {
	store, err := openStore()
	if err != nil {
		return nil, nil, fmt.Errorf("open storage: %w", err)
	}
	return history.NewRecorder(store, cfg.Storage.MaxHistory), store, nil
}

func closeStore(store storage.Store) {
	if err := store.Close(); err != nil {
		logger.Error("Failed to close storage: %v", err)
	}
}

func newSSBClient() *ssb.Client {
	return ssb.NewClient(cfg.SSB.APIBaseURL, cfg.SSB.Table, cfg.SSB.Timeout)
}

func queryOptions() query.Options {
	return query.Options{
		TypeDimension:     cfg.SSB.TypeDimension,
		ContentsDimension: cfg.SSB.ContentsDimension,
		TimeDimension:     cfg.SSB.TimeDimension,
		ContentsCode:      cfg.SSB.ContentsCode,
		Format:            cfg.SSB.Format,
	}
}

func chartOptions() chart.Options {
	return chart.Options{
		SeriesLabel: cfg.Chart.SeriesLabel,
		Width:       cfg.Chart.Width,
		Height:      cfg.Chart.Height,
		Format:      cfg.Chart.Format,
	}
}

// publicPath is the path component of server.public_url, used as the base
// for in-page address updates.
func publicPath() string {
	u, err := url.Parse(cfg.Server.PublicURL)
	if err != nil || u.Path == "" {
		return "/"
	}
	return u.Path
}
