package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"permit-sync/core/loader"
	"permit-sync/core/logger"
	"permit-sync/core/middleware/auth"
	"permit-sync/core/middleware/rayid"
	"permit-sync/feature/tablesync"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the table sync HTTP server",
	Long:  `Starts the HTTP server exposing plan, schema, preview and apply endpoints.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. Configuration, logger, database and service
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		logg := a.log
		zap.ReplaceGlobals(logg)
		cfg := a.cfg

		// 2. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
			JSONEncoder:           json.Marshal,
			JSONDecoder:           json.Unmarshal,
			ReadTimeout:           time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		})

		// 3. Initialize Feature Loader
		mgr := loader.NewManager()
		mgr.Register(tablesync.NewFeature(a.service))

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Request logging with the ray ID
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// 3. Auth (health stays public for probes)
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey, Skip: []string{"/health"}}))
		if !cfg.Server.RequiresAuth() {
			logg.Warn("SERVER_API_KEY is empty; the API is unauthenticated")
		}

		// 4. Load Features
		loaded, err := mgr.LoadAll(app)
		if err != nil {
			return err
		}
		logg.Info("Features loaded", zap.Strings("features", loaded))

		// 5. Start Server
		errCh := make(chan error, 1)
		go func() {
			logg.Info("Starting server", zap.String("addr", cfg.Server.Addr()), zap.String("table", a.service.Table()))
			errCh <- app.Listen(cfg.Server.Addr())
		}()

		// 6. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		select {
		case err := <-errCh:
			return err
		case <-c:
		}
		logg.Info("Shutting down server...")
		return app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
