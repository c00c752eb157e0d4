// Package audit publishes moderation lifecycle events to an MQTT broker and
// fans them out to in-process subscribers. The engine tolerates emission
// failure, so a dropped event never rolls back moderation state.
package audit

import (
	"fmt"
	"sync"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/google/uuid"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	json "github.com/goccy/go-json"
)

// topicPrefix is the root of all published topics:
// moderation/{guildId}/events
const topicPrefix = "moderation"

// Publisher is the engine's audit sink backed by MQTT.
type Publisher struct {
	client      mqtt.Client
	broadcaster *Broadcaster
	clientID    string
	now         func() time.Time
}

var (
	publisher *Publisher
	once      sync.Once
)

// Init initializes the global audit publisher.
func Init(host, port, username, password, clientID string) *Publisher {
	once.Do(func() {
		publisher = NewPublisher(host, port, username, password, clientID)
	})
	return publisher
}

// Get returns the global audit publisher.
func Get() *Publisher {
	return publisher
}

// NewPublisher connects to the broker and returns a ready publisher. The
// connection retries in the background; Emit reports failure while offline.
func NewPublisher(host, port, username, password, clientID string) *Publisher {
	p := &Publisher{
		broadcaster: NewBroadcaster(),
		clientID:    clientID,
		now:         time.Now,
	}

	uniqueID := fmt.Sprintf("%s_%s", clientID, uuid.New().String())

	opts := mqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("tcp://%s:%s", host, port)).
		SetClientID(uniqueID).
		SetUsername(username).
		SetPassword(password).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(func(c mqtt.Client) {
			logger.Success(fmt.Sprintf("Conectado al broker MQTT como %s", clientID), "Audit")
		}).
		SetConnectionLostHandler(func(c mqtt.Client, err error) {
			logger.Error(fmt.Sprintf("Conexión MQTT perdida: %v", err), "Audit")
		})

	p.client = mqtt.NewClient(opts)

	token := p.client.Connect()
	if token.Wait() && token.Error() != nil {
		logger.Error(fmt.Sprintf("Error de conexión MQTT: %v", token.Error()), "Audit")
	}

	return p
}

// Broadcaster exposes the in-process fan-out for subscribers like the
// websocket stream.
func (p *Publisher) Broadcaster() *Broadcaster {
	return p.broadcaster
}

// IsConnected returns true if connected to the broker.
func (p *Publisher) IsConnected() bool {
	return p.client != nil && p.client.IsConnected()
}

// Emit publishes one lifecycle event. Local subscribers always receive the
// event; the returned error reflects only broker delivery.
func (p *Publisher) Emit(guildID, eventType string, payload map[string]interface{}) error {
	ev := Event{
		GuildID:   guildID,
		Type:      eventType,
		Timestamp: p.now().Unix(),
		Payload:   payload,
	}

	p.broadcaster.Publish(ev)

	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("audit: marshal event: %w", err)
	}

	if !p.IsConnected() {
		return fmt.Errorf("audit: broker no conectado")
	}

	topic := fmt.Sprintf("%s/%s/events", topicPrefix, guildID)
	token := p.client.Publish(topic, 0, false, data)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("audit: publish %s: %w", topic, err)
	}
	return nil
}

// Destroy closes the broker connection.
func (p *Publisher) Destroy() {
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(250)
		logger.System("Conexión MQTT cerrada exitosamente.", "Audit")
	}
}
