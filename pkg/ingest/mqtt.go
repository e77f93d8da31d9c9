package ingest

import (
	"context"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

type MQTTConfig struct {
	Broker   string
	ClientID string
	Username string
	Password string
	Topic    string
	QoS      byte
}

// Subscriber feeds MQTT kit messages into an Ingester.
type Subscriber struct {
	cfg      MQTTConfig
	ingester *Ingester
	logger   *zap.Logger
}

func NewSubscriber(cfg MQTTConfig, ingester *Ingester, logger *zap.Logger) *Subscriber {
	if cfg.ClientID == "" {
		cfg.ClientID = "riverai-ingest"
	}
	if cfg.Topic == "" {
		cfg.Topic = "riverai/kits/+/+"
	}
	return &Subscriber{cfg: cfg, ingester: ingester, logger: logger}
}

func (s *Subscriber) clientOptions() *mqtt.ClientOptions {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(s.cfg.Broker)
	opts.SetClientID(s.cfg.ClientID)
	if s.cfg.Username != "" {
		opts.SetUsername(s.cfg.Username)
	}
	if s.cfg.Password != "" {
		opts.SetPassword(s.cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)
	opts.SetConnectTimeout(10 * time.Second)
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		s.logger.Warn("MQTT connection lost", zap.Error(err))
	})
	return opts
}

// Start connects, subscribes and blocks until ctx is done.
func (s *Subscriber) Start(ctx context.Context) error {
	client := mqtt.NewClient(s.clientOptions())
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}
	defer client.Disconnect(250)

	handler := func(_ mqtt.Client, msg mqtt.Message) {
		if err := s.ingester.HandleMessage(ctx, msg.Topic(), msg.Payload()); err != nil {
			s.logger.Warn("Dropped kit message",
				zap.String("topic", msg.Topic()),
				zap.Error(err),
			)
		}
	}
	if token := client.Subscribe(s.cfg.Topic, s.cfg.QoS, handler); token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to subscribe to topic %s: %w", s.cfg.Topic, token.Error())
	}
	s.logger.Info("MQTT ingest subscribed",
		zap.String("broker", s.cfg.Broker),
		zap.String("topic", s.cfg.Topic),
	)

	<-ctx.Done()
	client.Unsubscribe(s.cfg.Topic).Wait()
	s.logger.Info("MQTT ingest stopped")
	return nil
}
