// gowscd daemon -- WSC Enrollee protocol core (WSC v2.0.5) behind a
// unix datagram EAP payload transport.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/dantte-lp/gowsc/internal/config"
	"github.com/dantte-lp/gowsc/internal/dbusagent"
	"github.com/dantte-lp/gowsc/internal/eap"
	wscmetrics "github.com/dantte-lp/gowsc/internal/metrics"
	appversion "github.com/dantte-lp/gowsc/internal/version"
	"github.com/dantte-lp/gowsc/internal/wsc"
)

// shutdownTimeout is the maximum time to wait for the metrics server to
// drain active connections during graceful shutdown.
const shutdownTimeout = 10 * time.Second

// maxPayloadSize bounds one reassembled EAP-WSC payload unit. M2 with
// the full descriptive catalogue stays well under 1 KiB; 4 KiB leaves
// headroom for oversized vendor extensions.
const maxPayloadSize = 4096

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to configuration file (YAML)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(appversion.Full("gowscd"))
		return 0
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		// Logger is not set up yet; use a temporary stderr logger.
		slog.New(slog.NewTextHandler(os.Stderr, nil)).Error("failed to load configuration",
			slog.String("error", err.Error()),
		)
		return 1
	}

	logger := newLogger(cfg.Log)

	logger.Info("gowscd starting",
		slog.String("version", appversion.Version),
		slog.String("socket", cfg.Socket.Path),
		slog.String("metrics_addr", cfg.Metrics.Addr),
	)

	if err := runDaemon(cfg, logger); err != nil {
		logger.Error("gowscd exited with error",
			slog.String("error", err.Error()),
		)
		return 1
	}

	logger.Info("gowscd stopped")
	return 0
}

// runDaemon wires the enrollee method to the transport, metrics and
// D-Bus surfaces and blocks until SIGINT/SIGTERM.
func runDaemon(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	reg := prometheus.NewRegistry()
	collector := wscmetrics.NewCollector(reg)

	// The D-Bus agent is optional: systems without a bus still provision.
	agent, err := dbusagent.New(logger)
	if err != nil {
		logger.Warn("dbus agent unavailable", slog.String("error", err.Error()))
		agent = nil
	} else {
		defer agent.Close()
	}

	conn, err := listenPayloadSocket(cfg.Socket.Path)
	if err != nil {
		return err
	}
	defer conn.Close()
	defer os.Remove(cfg.Socket.Path)

	sender := &unixSender{conn: conn, logger: logger}

	method, err := newMethod(cfg, sender, collector, agent, logger)
	if err != nil {
		return err
	}
	defer method.Remove()

	metricsSrv := newMetricsServer(cfg.Metrics, reg)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("metrics server listening",
			slog.String("addr", cfg.Metrics.Addr),
			slog.String("path", cfg.Metrics.Path),
		)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return servePayloads(gCtx, conn, sender, method, logger)
	})

	// Shutdown goroutine: waits for context cancellation.
	g.Go(func() error {
		<-gCtx.Done()
		notifyStopping(logger)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		_ = conn.Close() // unblocks the payload loop
		return metricsSrv.Shutdown(shutdownCtx)
	})

	notifyReady(logger)

	if err := g.Wait(); err != nil {
		return fmt.Errorf("run daemon: %w", err)
	}
	return nil
}

// newMethod builds the WSC method with metrics, D-Bus and credential
// plumbing, and loads the enrollee settings.
func newMethod(
	cfg *config.Config,
	sender eap.Sender,
	collector *wscmetrics.Collector,
	agent *dbusagent.Agent,
	logger *slog.Logger,
) (*eap.WSCMethod, error) {
	opts := []eap.WSCMethodOption{
		eap.WithEMSKExport(func(emsk []byte) {
			// The outer EAP peer owns key export; the daemon only logs.
			logger.Info("EMSK available", slog.Int("len", len(emsk)))
			wsc.ZeroBytes(emsk)
		}),
	}
	if agent != nil {
		opts = append(opts, eap.WithCredentialsExport(agent.CredentialsReceived))
	}

	method, err := eap.NewWSCMethod(sender, logger, opts...)
	if err != nil {
		return nil, fmt.Errorf("create WSC method: %w", err)
	}

	var reporter wsc.MetricsReporter = collector
	if agent != nil {
		reporter = &fanoutReporter{Collector: collector, agent: agent}
	}

	if err := method.LoadSettings(&cfg.WSC, "", wsc.WithMetrics(reporter)); err != nil {
		return nil, err
	}

	return method, nil
}

// fanoutReporter forwards state transitions to the D-Bus agent on top of
// the Prometheus collector.
type fanoutReporter struct {
	*wscmetrics.Collector
	agent *dbusagent.Agent
}

// RecordStateTransition updates both the collector and the agent.
func (f *fanoutReporter) RecordStateTransition(from, to string) {
	f.Collector.RecordStateTransition(from, to)
	f.agent.StateChanged(from, to)
}

// -------------------------------------------------------------------------
// Payload transport — unix datagram socket
// -------------------------------------------------------------------------

// listenPayloadSocket binds the unix datagram socket carrying EAP-WSC
// payload units. A stale socket file from an unclean shutdown is removed
// first.
func listenPayloadSocket(path string) (*net.UnixConn, error) {
	_ = os.Remove(path)

	conn, err := net.ListenUnixgram("unixgram", &net.UnixAddr{Name: path, Net: "unixgram"})
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", path, err)
	}

	return conn, nil
}

// servePayloads reads one EAP-WSC payload unit per datagram and
// dispatches it to the method. Responses go back to the most recent
// peer, preserving FIFO order within the synchronous handler.
func servePayloads(
	ctx context.Context,
	conn *net.UnixConn,
	sender *unixSender,
	method *eap.WSCMethod,
	logger *slog.Logger,
) error {
	buf := make([]byte, maxPayloadSize)

	for {
		n, addr, err := conn.ReadFromUnix(buf)
		if err != nil {
			if ctx.Err() != nil {
				return nil // shutdown closed the socket
			}
			return fmt.Errorf("read payload socket: %w", err)
		}

		sender.setPeer(addr)

		pkt := make([]byte, n)
		copy(pkt, buf[:n])
		method.HandleRequest(pkt)
	}
}

// unixSender delivers framed responses to the last peer that spoke.
type unixSender struct {
	conn   *net.UnixConn
	logger *slog.Logger

	mu   sync.Mutex
	peer *net.UnixAddr
}

// setPeer records the origin of the request being processed.
func (s *unixSender) setPeer(addr *net.UnixAddr) {
	s.mu.Lock()
	s.peer = addr
	s.mu.Unlock()
}

// SendResponse writes the payload region of the response buffer to the
// current peer. The reserved header region is meaningful only to a real
// EAP framer and is not transmitted.
func (s *unixSender) SendResponse(_ eap.Type, tx *eap.TxBuffer) {
	s.mu.Lock()
	peer := s.peer
	s.mu.Unlock()

	if peer == nil {
		s.logger.Warn("response with no peer")
		return
	}

	if _, err := s.conn.WriteToUnix(tx.Payload(), peer); err != nil {
		s.logger.Warn("write response", slog.String("error", err.Error()))
	}
}

// -------------------------------------------------------------------------
// Servers and process plumbing
// -------------------------------------------------------------------------

// newMetricsServer creates an HTTP server for the Prometheus metrics
// endpoint.
func newMetricsServer(cfg config.MetricsConfig, reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// newLogger builds the process logger from the log configuration.
func newLogger(cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: config.ParseLogLevel(cfg.Level)}

	var handler slog.Handler
	switch cfg.Format {
	case "text":
		handler = slog.NewTextHandler(os.Stdout, opts)
	default:
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}

// notifyReady sends READY=1 to systemd when running under Type=notify.
func notifyReady(logger *slog.Logger) {
	sent, err := daemon.SdNotify(false, daemon.SdNotifyReady)
	if err != nil {
		logger.Warn("failed to notify systemd readiness",
			slog.String("error", err.Error()),
		)
		return
	}
	if sent {
		logger.Info("notified systemd: READY")
	}
}

// notifyStopping sends STOPPING=1 to systemd at shutdown start.
func notifyStopping(logger *slog.Logger) {
	sent, err := daemon.SdNotify(false, daemon.SdNotifyStopping)
	if err != nil {
		logger.Warn("failed to notify systemd stopping",
			slog.String("error", err.Error()),
		)
		return
	}
	if sent {
		logger.Info("notified systemd: STOPPING")
	}
}
