package api

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/mitchellh/cli"
	"github.com/satori/uuid"
	"github.com/yusufsyaifudin/ylog"
	jaegerPropagator "go.opentelemetry.io/contrib/propagators/jaeger"
	"go.opentelemetry.io/contrib/propagators/ot"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/joaop06/jcoder/container"
	"github.com/joaop06/jcoder/pkg/logger"
	"github.com/joaop06/jcoder/pkg/tracer"
	"github.com/joaop06/jcoder/transport/restapi"
)

const (
	ExitSuccess = 0
	ExitErr     = -1
)

type Cmd struct {
	flags      *flag.FlagSet
	appName    string
	appVersion string
}

func NewCmd(appName, appVersion string) func() (cli.Command, error) {
	return func() (cli.Command, error) {
		cmd := &Cmd{
			appName:    appName,
			appVersion: appVersion,
		}
		err := cmd.init()
		return cmd, err
	}
}

var _ cli.Command = (*Cmd)(nil)
var _ cli.CommandFactory = NewCmd("", "")

func (c *Cmd) init() error {
	c.flags = flag.NewFlagSet("", flag.ContinueOnError)
	return nil
}

func (c *Cmd) Help() string {
	return `Start the portfolio HTTP API server`
}

func (c *Cmd) Run(args []string) int {
	err := c.flags.Parse(args)
	if err != nil {
		log.Fatalf("error parsing argument: %s", err)
		return ExitErr
	}

	// ** define system context and global loggers
	ctx, err := setupLog(context.Background())
	if err != nil {
		log.Fatalf("error prepare logger: %s", err)
		return ExitErr
	}

	// ** load config file
	cfg, err := container.LoadConfig()
	if err != nil {
		log.Fatalf("error load config: %s", err)
		return ExitErr
	}

	if err = setupTracer(cfg.Tracer); err != nil {
		logger.Error(ctx, "~ error setup tracer", logger.KV("error", err))
		return ExitErr
	}

	logger.Info(ctx, "~ setup repositories")
	repos, err := container.SetupRepositories(cfg.DatabaseResources)
	if err != nil {
		logger.Error(ctx, "~ error setup repositories", logger.KV("error", err))
		return ExitErr
	}

	defer func() {
		logger.Info(ctx, "~ closing repositories")
		if _err := repos.Close(); _err != nil {
			logger.Error(ctx, "~ error close repositories", logger.KV("error", _err))
		}
	}()

	var redisConn *container.RedisConnMaker
	if len(cfg.RedisResources) > 0 {
		logger.Info(ctx, "~ setup redis connections")
		redisConn, err = container.NewRedisConnMaker(ctx, cfg.RedisResources)
		if err != nil {
			logger.Error(ctx, "~ error setup redis", logger.KV("error", err))
			return ExitErr
		}

		defer func() {
			logger.Info(ctx, "~ closing redis connections")
			if _err := redisConn.CloseAll(); _err != nil {
				logger.Error(ctx, "~ error close redis", logger.KV("error", _err))
			}
		}()
	}

	logger.Info(ctx, "~ setting up services")
	services, err := container.SetupServices(cfg.Services, repos, redisConn)
	if err != nil {
		logger.Error(ctx, "~ error setup services", logger.KV("error", err))
		return ExitErr
	}

	// ** HTTP TRANSPORT
	logger.Info(ctx, "~ prepare http transport")
	server, err := restapi.NewHTTPTransport(restapi.Config{
		AppServiceName:     c.appName,
		AppVersion:         c.appVersion,
		ApplicationService: services.Application(),
	})
	if err != nil {
		logger.Error(ctx, "~ prepare http transport error", logger.KV("error", err))
		return ExitErr
	}

	httpPort := fmt.Sprintf(":%d", cfg.Transport.HTTP.Port)
	logger.Debug(ctx, fmt.Sprintf("~ http transport is up on port %s", httpPort))

	httpServer := &http.Server{
		Addr:    httpPort,
		Handler: server.Server(),
	}

	var apiErrChan = make(chan error, 1)
	go func() {
		apiErrChan <- httpServer.ListenAndServe()
	}()

	// ** listen for sigterm signal
	var signalChan = make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	select {
	case <-signalChan:
		logger.Info(ctx, "exiting http server")
		if _err := httpServer.Shutdown(ctx); _err != nil {
			logger.Error(ctx, "error shutdown", logger.KV("error", _err))
		}

	case err := <-apiErrChan:
		if err != nil {
			logger.Info(ctx, "error HTTP API", logger.KV("error", err))
		}
	}

	return ExitSuccess
}

func (c *Cmd) Synopsis() string {
	return `Start the portfolio HTTP API server`
}

// setupTracer registers the global trace provider and propagators.
// Spans are dropped when tracing is disabled or no collector endpoint is set.
func setupTracer(cfg container.ConfigTracer) error {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		&ot.OT{},
		&jaegerPropagator.Jaeger{},
	))

	if cfg.Disable || cfg.JaegerEndpoint == "" {
		return nil
	}

	exp, err := jaeger.New(
		jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(cfg.JaegerEndpoint)),
	)
	if err != nil {
		return fmt.Errorf("error setup jaeger exporter: %w", err)
	}

	tracer.InitTraceProvider(exp)
	return nil
}

// setupLog builds the zap core shared by both logging layers and injects the
// system trace id into the returned context.
func setupLog(ctx context.Context) (context.Context, error) {
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zapcore.EncoderConfig{
			TimeKey:        "ts",
			MessageKey:     "msg",
			EncodeDuration: zapcore.MillisDurationEncoder,
			EncodeTime:     zapcore.RFC3339NanoTimeEncoder,
			LineEnding:     zapcore.DefaultLineEnding,
			LevelKey:       "level",
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
		}),
		zapcore.NewMultiWriteSyncer(zapcore.AddSync(os.Stdout)), // pipe to multiple writer
		zapcore.DebugLevel,
	)

	zapLog := zap.New(core)

	propagateData := tracer.LogData{
		RemoteAddr: "system",
		TraceID:    uuid.NewV4().String(),
	}

	traceLog, err := ylog.NewTracer(propagateData, ylog.WithTag("tracer"))
	if err != nil {
		return ctx, fmt.Errorf("error prepare tracer system data: %w", err)
	}

	ctx = ylog.Inject(ctx, traceLog)

	ylog.SetGlobalLogger(ylog.NewZap(zapLog))
	logger.SetGlobalLogger(logger.NewZap(zapLog))

	return ctx, nil
}
