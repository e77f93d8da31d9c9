package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"p9e.in/riverai/config"
	"p9e.in/riverai/handlers"
	"p9e.in/riverai/middleware"
	"p9e.in/riverai/pkg/alerting"
	"p9e.in/riverai/pkg/ingest"
	"p9e.in/riverai/pkg/logger"
	"p9e.in/riverai/pkg/notify"
	"p9e.in/riverai/pkg/reports"
	"p9e.in/riverai/pkg/store"
	"p9e.in/riverai/routes"
)

var (
	Version   = "dev"
	BuildTime = ""
)

const devJWTSecret = "riverai-dev-secret"

func main() {
	versionFlag := flag.Bool("version", false, "Print version info and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("Version:   %s\n", Version)
		fmt.Printf("BuildTime: %s\n", BuildTime)
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "riverai")
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("Server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := config.Connect(cfg, log)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	if err := config.RunAllSeeding(db, cfg, log); err != nil {
		log.Warn("Seeding encountered issues", zap.Error(err))
	}
	st := store.New(db, log)

	var sender notify.Sender
	if cfg.NotifierURL != "" {
		sender = notify.NewHTTPSender(cfg.NotifierURL, log)
		log.Info("Using HTTP notifier", zap.String("url", cfg.NotifierURL))
	} else if cfg.SMTP.Host != "" {
		sender = notify.NewSMTPSender(notify.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.User,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		}, log)
		log.Info("Using SMTP notifier", zap.String("host", cfg.SMTP.Host))
	} else {
		log.Warn("No notifier configured, emails are disabled")
	}
	var warnSender notify.Sender = disabledSender{}
	if sender != nil {
		sender = notify.NewAuditedSender(sender, st.Emails, log)
		warnSender = sender
	}

	var lease alerting.Lease = alerting.NoopLease{}
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("Redis unreachable, monitor runs without lease", zap.Error(err))
		} else {
			lease = alerting.NewRedisLease(rdb)
		}
	}

	recorder := alerting.NewRecorder(st.Alerts, log)
	warner := alerting.NewWarner(st.Industries, st.Users, st.Samples, warnSender, log)
	monitor := alerting.NewMonitor(alerting.MonitorConfig{
		Interval:       cfg.Monitor.Interval,
		NotifyOnBreach: cfg.Monitor.NotifyOnBreach && sender != nil,
	}, st.Industries, st.Samples, recorder, warner, lease, log)
	ingester := ingest.NewIngester(st.Industries, st.Samples, log)

	var archive reports.Archive = reports.LocalArchive{Dir: cfg.Reports.Dir}
	if cfg.Reports.Bucket != "" {
		gcs, err := reports.NewGCSArchive(ctx, cfg.Reports.Bucket)
		if err != nil {
			return fmt.Errorf("open report bucket: %w", err)
		}
		defer gcs.Close()
		archive = gcs
	}
	generator := reports.NewGenerator(st.Industries, st.Users, st.Samples, st.Alerts, archive, log)

	secret := cfg.JWTSecret
	if secret == "" {
		log.Warn("JWT_SECRET not set, using development secret")
		secret = devJWTSecret
	}

	h := handlers.New(handlers.Deps{
		Industries: st.Industries,
		Sectors:    st.Sectors,
		Users:      st.Users,
		Samples:    st.Samples,
		Alerts:     st.Alerts,
		Emails:     st.Emails,
		Checker:    monitor,
		Warner:     warner,
		Recorder:   ingester,
		Sender:     sender,
		Reports:    generator,
		Auth:       middleware.NewAuth(secret, 0),
		Logger:     log,
	})

	if cfg.Monitor.Enabled {
		go func() {
			if err := monitor.Run(ctx); err != nil {
				log.Error("Monitor stopped", zap.Error(err))
			}
		}()
	}
	if cfg.MQTT.Broker != "" {
		sub := ingest.NewSubscriber(ingest.MQTTConfig{
			Broker:   cfg.MQTT.Broker,
			ClientID: cfg.MQTT.ClientID,
			Username: cfg.MQTT.Username,
			Password: cfg.MQTT.Password,
			Topic:    cfg.MQTT.Topic,
		}, ingester, log)
		go func() {
			if err := sub.Start(ctx); err != nil {
				log.Error("MQTT ingest stopped", zap.Error(err))
			}
		}()
	}

	handler := middleware.Recovery(log)(middleware.CORS(routes.RegisterRoutes(h, log)))
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("port", cfg.Port), zap.String("version", Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// disabledSender backs the warner when no notifier is configured.
type disabledSender struct{}

func (disabledSender) Send(context.Context, notify.Message) error {
	return errors.New("no notifier configured")
}
