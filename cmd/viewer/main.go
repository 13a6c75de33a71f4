package main

import (
	"GopherViewer/internal/config"
	"GopherViewer/internal/logger"
	"GopherViewer/internal/viewer"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newRootCmd builds the CLI. run receives the merged configuration.
func newRootCmd(run func(cfg config.Config) error) *cobra.Command {
	var (
		configPath string
		assets     string
		width      int32
		height     int32
		watch      bool
		debug      bool
		write      bool
	)

	cmd := &cobra.Command{
		Use:   "viewer [model.obj]",
		Short: "Interactive OBJ model viewer",
		Long: `Viewer loads Wavefront OBJ models and renders them with a set of
selectable shading programs. Lighting, material, projection and texture
mapping can be adjusted from the on-screen panels.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("assets") {
				cfg.Assets = assets
			}
			if flags.Changed("width") {
				cfg.Window.Width = width
			}
			if flags.Changed("height") {
				cfg.Window.Height = height
			}
			if flags.Changed("watch") {
				cfg.Watch = watch
			}
			if flags.Changed("debug") {
				cfg.Debug = debug
			}
			if len(args) == 1 {
				// Command line paths are relative to the working directory,
				// not to the assets directory.
				path, err := filepath.Abs(args[0])
				if err != nil {
					return err
				}
				cfg.Models.Primary = path
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			if write {
				if err := config.Save(configPath, cfg); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", configPath)
				return nil
			}
			return run(cfg)
		},
	}

	defaults := config.Default()
	flags := cmd.Flags()
	flags.StringVarP(&configPath, "config", "c", "viewer.toml", "path to a TOML config file")
	flags.StringVar(&assets, "assets", defaults.Assets, "assets directory holding shaders, models and maps")
	flags.Int32Var(&width, "width", defaults.Window.Width, "initial window width")
	flags.Int32Var(&height, "height", defaults.Window.Height, "initial window height")
	flags.BoolVarP(&watch, "watch", "w", false, "reload shaders and the primary model when they change on disk")
	flags.BoolVar(&debug, "debug", false, "enable debug logging")
	flags.BoolVar(&write, "write-config", false, "write the merged configuration to --config and exit")
	return cmd
}

func runViewer(cfg config.Config) error {
	logger.Init(cfg.Debug)
	defer logger.Sync()
	logger.Log.Info("Viewer starting",
		zap.String("assets", cfg.Assets),
		zap.String("model", cfg.Models.Primary),
		zap.Bool("watch", cfg.Watch))

	return viewer.New(cfg).Run()
}

func main() {
	if err := newRootCmd(runViewer).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
