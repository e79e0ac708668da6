package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"object-manager/core/loader"
	"object-manager/core/logger"
	"object-manager/core/middleware/auth"
	"object-manager/core/middleware/rayid"
	"object-manager/feature/bucket"
	"object-manager/feature/file"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "object-manager/docs/swagger"
)

// @title Object Manager API
// @version 1.0
// @description HTTP API for managing buckets and files in S3-compatible object storage.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the object manager server",
	Long:  `Starts the HTTP server and registers the bucket and file features.`,
	Run: func(cmd *cobra.Command, args []string) {
		app, err := loadAppContext()
		if err != nil {
			log.Fatalf("Failed to start: %v", err)
		}
		logg := app.logger
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		srv := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			BodyLimit:             app.cfg.Server.BodyLimit(),
		})

		mgr := loader.NewManager(logg)
		mgr.Register(bucket.NewFeature(app.store, app.cfg.Storage.Region, logg))
		mgr.Register(file.NewFeature(app.store, app.fileOptions(), logg))

		// RayID must be first so every later log line carries it.
		srv.Use(rayid.New())

		srv.Use(func(c *fiber.Ctx) error {
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

		// Swagger stays public.
		srv.Get("/swagger/*", swagger.HandlerDefault)

		srv.Use(auth.New(auth.Config{ApiKey: app.cfg.Server.ApiKey}))

		if err := mgr.LoadAll(srv); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		go func() {
			logg.Info("Starting server",
				zap.String("port", app.cfg.Server.Port),
				zap.String("storage", app.cfg.Storage.Endpoint))
			if err := srv.Listen(":" + app.cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = srv.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
