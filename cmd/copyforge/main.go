// copyforge drives the Gemini web chat through a real Chrome instance to
// produce structured marketing copy, exposed over HTTP or as a one-shot CLI.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"copyforge/internal/browser"
	"copyforge/internal/config"
	"copyforge/internal/content"
	"copyforge/internal/generate"
	"copyforge/internal/logging"
	"copyforge/internal/server"
)

var version = "0.1.0"

var (
	configPath string
	verbose    bool

	cfgStore atomic.Pointer[config.Config]
	log      *zap.Logger
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "copyforge",
		Short:         "Structured marketing copy from a web chat UI",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// .env is optional; real env vars win either way.
			_ = godotenv.Load()

			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			cfgStore.Store(cfg)

			level := cfg.Logging.Level
			if verbose {
				level = "debug"
			}
			log, err = logging.New(logging.Options{
				Level:    level,
				Encoding: cfg.Logging.Encoding,
			})
			if err != nil {
				return err
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if log != nil {
				_ = log.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "copyforge.yaml", "path to the YAML config file")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(serveCmd())
	root.AddCommand(generateCmd())
	root.AddCommand(versionCmd())
	return root
}

// newOrchestrator assembles the generation pipeline from the current config
// snapshot. Settings are re-read from the atomic store on every run so hot
// reloads apply without a restart.
func newOrchestrator() *generate.Orchestrator {
	opener := generate.OpenerFunc(func(ctx context.Context) (generate.Surface, error) {
		cfg := cfgStore.Load()
		return browser.Open(ctx, browser.Options{
			ProfileDir: cfg.Browser.ProfileDir,
			Headless:   cfg.Browser.Headless,
			NavTimeout: cfg.GetNavTimeout(),
		}, log)
	})

	settings := func() generate.Settings {
		cfg := cfgStore.Load()
		return generate.Settings{
			ChatURL:         cfg.Browser.ChatURL,
			SignInGrace:     cfg.GetSignInGrace(),
			PostLoginSettle: cfg.GetPostLoginSettle(),
			InputWait:       cfg.GetInputWait(),
			Wait: generate.WaitConfig{
				InitialGrace:           cfg.GetInitialGrace(),
				ReplyPollInterval:      cfg.GetReplyPollInterval(),
				ReplyPollAttempts:      cfg.Wait.ReplyPollAttempts,
				CompletionPollInterval: cfg.GetCompletionPollInterval(),
				CompletionPollAttempts: cfg.Wait.CompletionPollAttempts,
				SettleDelay:            cfg.GetSettleDelay(),
				MinReplyChars:          cfg.Wait.MinReplyChars,
			},
		}
	}

	snapshots := generate.NewSnapshots(cfgStore.Load().Output.Dir, log)
	return generate.NewOrchestrator(opener, settings, snapshots, log)
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := cfgStore.Load()
			gin.SetMode(gin.ReleaseMode)
			if verbose {
				gin.SetMode(gin.DebugMode)
			}

			handler := server.NewHandler(newOrchestrator(), server.Options{
				DashboardPath: cfg.Server.DashboardPath,
				AllowOrigins:  cfg.Server.AllowOrigins,
			}, log)

			srv := &http.Server{
				Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
				Handler:      handler.Router(),
				ReadTimeout:  cfg.GetReadTimeout(),
				WriteTimeout: cfg.GetWriteTimeout(),
				IdleTimeout:  cfg.GetIdleTimeout(),
			}

			watchCtx, stopWatch := context.WithCancel(context.Background())
			defer stopWatch()
			go func() {
				err := config.Watch(watchCtx, configPath, log, func(next *config.Config) {
					cfgStore.Store(next)
				})
				if err != nil && !errors.Is(err, context.Canceled) {
					log.Warn("config watch stopped", zap.Error(err))
				}
			}()

			errCh := make(chan error, 1)
			go func() {
				log.Info("server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			select {
			case err := <-errCh:
				return fmt.Errorf("server failed: %w", err)
			case sig := <-quit:
				log.Info("shutting down", zap.String("signal", sig.String()))
			}

			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			log.Info("server stopped")
			return nil
		},
	}
}

func generateCmd() *cobra.Command {
	var req content.GenerationRequest

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Run one generation and print the JSON result",
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.TitlePrompt == "" || req.DescPrompt == "" || req.BulletPrompt == "" {
				return fmt.Errorf("--title-prompt, --desc-prompt, and --bullet-prompt are required")
			}

			res, err := newOrchestrator().Generate(cmd.Context(), req)
			if err != nil {
				log.Error("generation failed", zap.Error(err))
			}

			out, merr := json.MarshalIndent(res, "", "  ")
			if merr != nil {
				return merr
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))

			if !res.Success {
				return fmt.Errorf("generation did not produce any real items")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&req.TitlePrompt, "title-prompt", "", "style guidance for titles")
	cmd.Flags().StringVar(&req.DescPrompt, "desc-prompt", "", "style guidance for descriptions")
	cmd.Flags().StringVar(&req.BulletPrompt, "bullet-prompt", "", "style guidance for bullet points")
	cmd.Flags().StringVar(&req.TitleData, "title-data", "", "reference data for titles")
	cmd.Flags().StringVar(&req.DescData, "desc-data", "", "reference data for descriptions")
	cmd.Flags().StringVar(&req.BulletData, "bullet-data", "", "reference data for bullet points")
	cmd.Flags().IntVar(&req.TitleCount, "title-count", 0, "number of titles (default 5)")
	cmd.Flags().IntVar(&req.DescCount, "desc-count", 0, "number of descriptions (default 5)")
	cmd.Flags().IntVar(&req.BulletCount, "bullet-count", 0, "number of bullet points (default 8)")
	cmd.Flags().IntVar(&req.TitleLength, "title-length", 0, "approx title length in chars (default 100)")
	cmd.Flags().IntVar(&req.DescLength, "desc-length", 0, "approx description length in chars (default 300)")
	cmd.Flags().IntVar(&req.BulletLength, "bullet-length", 0, "approx bullet length in chars (default 80)")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "copyforge %s\n", version)
		},
	}
}
