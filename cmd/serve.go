package cmd

import (
	"context"
	"fmt"
	"net"

	"github.com/vibast-solutions/ms-go-glucose/app/controller"
	glucosegrpc "github.com/vibast-solutions/ms-go-glucose/app/grpc"
	"github.com/vibast-solutions/ms-go-glucose/app/middleware"
	"github.com/vibast-solutions/ms-go-glucose/app/service"
	"github.com/vibast-solutions/ms-go-glucose/app/storage"
	"github.com/vibast-solutions/ms-go-glucose/config"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP and gRPC servers",
	Long:  `Start both HTTP (Echo) and gRPC servers for the glucose logger.`,
	Run:   runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if err := configureLogging(cfg); err != nil {
		logrus.WithError(err).Fatal("Failed to configure logging")
	}

	ctx := context.Background()
	db, err := openDatabase(ctx, cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	readingService, photos, err := newReadingService(ctx, cfg, db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize reading service")
	}

	verifier := service.NewAccessVerifier(service.StaticSecret(cfg.AccessCode))
	if !verifier.HasSecretConfigured() {
		logrus.Warn("APP_ACCESS_CODE is not set; all writes will be rejected")
	}

	go startGRPCServer(cfg, readingService, verifier)

	startHTTPServer(cfg, readingService, photos, verifier)
}

func newHTTPServer(cfg *config.Config, readingService *service.ReadingService, photos storage.PhotoStore, verifier *service.AccessVerifier) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogRemoteIP:  true,
		LogLatency:   true,
		LogUserAgent: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			fields := logrus.Fields{
				"remote_ip":  v.RemoteIP,
				"host":       v.Host,
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"latency_ns": v.Latency.Nanoseconds(),
				"user_agent": v.UserAgent,
			}
			entry := logrus.WithFields(fields)
			if v.Error != nil {
				entry = entry.WithError(v.Error)
			}
			entry.Info("http_request")
			return nil
		},
	}))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, middleware.AccessTokenHeader},
	}))
	// Room for the photo plus the other multipart fields.
	e.Use(echomiddleware.BodyLimit(fmt.Sprintf("%dK", (cfg.Photos.MaxBytes+(1<<20))/1024)))

	if local, ok := photos.(*storage.LocalPhotoStore); ok {
		e.Static("/photos", local.Dir())
	}

	accessController := controller.NewAccessController(verifier, controller.AccessCookieConfig{
		TTL:    cfg.AccessCookieTTL,
		Secure: cfg.IsProduction(),
	})
	readingController := controller.NewReadingController(readingService, verifier, cfg.Photos.MaxBytes)
	accessMiddleware := middleware.NewAccessMiddleware(verifier)

	e.GET("/health", controller.Health)

	e.GET("/access", accessController.Status)
	e.POST("/access", accessController.Login)
	e.POST("/access/logout", accessController.Logout)

	api := e.Group("/api")
	api.GET("/readings", readingController.List)
	api.GET("/dashboard", readingController.Dashboard, accessMiddleware.LoadAccess)

	apiProtected := api.Group("")
	apiProtected.Use(accessMiddleware.RequireAccess)
	apiProtected.POST("/readings", readingController.Create)
	apiProtected.POST("/readings/detect", readingController.Detect)
	apiProtected.DELETE("/readings/:id", readingController.Delete)

	return e
}

func startHTTPServer(cfg *config.Config, readingService *service.ReadingService, photos storage.PhotoStore, verifier *service.AccessVerifier) {
	e := newHTTPServer(cfg, readingService, photos, verifier)
	defer e.Close()

	httpAddr := net.JoinHostPort(cfg.HTTPHost, cfg.HTTPPort)
	logrus.WithField("addr", httpAddr).Info("Starting HTTP server")
	if err := e.Start(httpAddr); err != nil {
		logrus.WithError(err).Fatal("Failed to start HTTP server")
	}
}

func startGRPCServer(cfg *config.Config, readingService *service.ReadingService, verifier *service.AccessVerifier) {
	grpcAddr := net.JoinHostPort(cfg.GRPCHost, cfg.GRPCPort)
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to listen on gRPC port")
	}

	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(glucosegrpc.AccessUnaryInterceptor(verifier)))
	defer grpcServer.GracefulStop()
	glucosegrpc.RegisterReadingServiceServer(grpcServer, glucosegrpc.NewReadingServer(readingService))

	logrus.WithField("addr", grpcAddr).Info("Starting gRPC server")
	if err := grpcServer.Serve(lis); err != nil {
		logrus.WithError(err).Fatal("Failed to start gRPC server")
	}
}
