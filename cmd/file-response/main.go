package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	fileresponse "github.com/always-cache/file-response"
	"github.com/always-cache/file-response/catalog"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"
	"golang.org/x/sync/errgroup"
)

var (
	// CLI flags
	portFlag           int
	configFilenameFlag string
	rootFlag           string
	bucketFlag         string
	dbFilenameFlag     string
	verbosityTraceFlag bool
	logFilenameFlag    string

	// this is set by goreleaser
	version string
)

func init() {
	flag.IntVar(&portFlag, "port", 8080, "Port to listen on")
	flag.StringVar(&configFilenameFlag, "config", "", "Path to config file")
	flag.StringVar(&rootFlag, "root", "", "Directory to serve files from (overrides config)")
	flag.StringVar(&bucketFlag, "bucket", "", "Bucket URL to serve files from (overrides config)")
	flag.StringVar(&dbFilenameFlag, "db", "catalog.db", "Catalog DB file name (use 'memory' for in-memory db)")
	flag.BoolVar(&verbosityTraceFlag, "vv", false, "Verbosity: trace logging")
	flag.StringVar(&logFilenameFlag, "log-file", "", "Log file to use (in addition to stdout)")

	if version == "" {
		version = "DEV"
	}
}

func main() {
	flag.Parse()

	// set log level
	logLevel := zerolog.DebugLevel
	if verbosityTraceFlag {
		logLevel = zerolog.TraceLevel
	}

	// set up log output to stdout
	// also output to logfile if specified
	logOutputs := make([]io.Writer, 0)
	logOutputs = append(logOutputs, zerolog.ConsoleWriter{Out: os.Stdout})
	if logFilenameFlag != "" {
		if logFileOutput, err := os.OpenFile(logFilenameFlag, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644); err != nil {
			log.Fatal().Err(err).Msg("Cannot open log file")
		} else {
			logOutputs = append(logOutputs, logFileOutput)
		}
	}
	multiWriter := zerolog.MultiLevelWriter(logOutputs...)
	log.Logger = log.Level(logLevel).Output(multiWriter).
		With().Str("version", version).Logger()

	var config Config
	if configFilenameFlag != "" {
		var err error
		if config, err = getConfig(configFilenameFlag); err != nil {
			log.Fatal().Err(err).Msg("Could not read config")
		}
	}
	if rootFlag != "" {
		config.Root = rootFlag
	}
	if bucketFlag != "" {
		config.Bucket = bucketFlag
	}
	if config.Root == "" && config.Bucket == "" && len(config.Files) == 0 {
		log.Fatal().Msg("Please specify root, bucket or files to serve")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, config); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}

func run(ctx context.Context, config Config) error {
	// set up sqlite memory provider
	dbFilename := dbFilenameFlag
	if dbFilename == "memory" {
		dbFilename = ""
	}
	cat, err := catalog.NewSQLiteCatalog(dbFilename)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer cat.Close()
	if err := seedCatalog(cat, config.Files); err != nil {
		return err
	}

	handlerConfig := fileresponse.Config{
		Catalog:   cat,
		Rules:     config.Rules,
		Root:      config.Root,
		BlockSize: config.BlockSize,
		Logger:    &log.Logger,
	}
	if config.Bucket != "" {
		bucket, err := blob.OpenBucket(ctx, config.Bucket)
		if err != nil {
			return fmt.Errorf("open bucket: %w", err)
		}
		defer bucket.Close()
		handlerConfig.Bucket = bucket
	}

	router := chi.NewRouter()
	router.Use(hlog.NewHandler(log.Logger))
	router.Use(hlog.RequestIDHandler("requestId", "X-Request-Id"))
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	router.Handle("/*", fileresponse.CreateHandler(handlerConfig))

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", portFlag),
		Handler: router,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info().Msgf("Serving files on port %d (root '%s', bucket '%s')", portFlag, config.Root, config.Bucket)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		log.Info().Msg("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return group.Wait()
}
