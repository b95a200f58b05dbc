package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"occupancy/internal/zone"
)

const publishTimeout = 5 * time.Second

// mqttClient is the part of mqtt.Client the publisher needs.
type mqttClient interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// MQTTPublisher publishes every report to a broker. The full report goes to
// <topic>, the site occupancy to <topic>/total and every zone's occupancy to
// <topic>/zones/<zone id>. All messages are retained so new subscribers see
// the latest state.
type MQTTPublisher struct {
	client mqttClient
	topic  string
}

// NewMQTTPublisher wraps a connected client.
func NewMQTTPublisher(client mqtt.Client, topic string) *MQTTPublisher {
	return &MQTTPublisher{client: client, topic: topic}
}

// ConnectMQTT connects to the broker and returns the client.
func ConnectMQTT(broker, clientID string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(publishTimeout)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker %s: %w", broker, token.Error())
	}
	return client, nil
}

// Name identifies the publisher among the report sinks.
func (p *MQTTPublisher) Name() string {
	return "mqtt"
}

// Publish sends the report and its per-zone figures.
func (p *MQTTPublisher) Publish(ctx context.Context, report zone.Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	if err := p.send(p.topic, payload); err != nil {
		return err
	}
	if err := p.send(p.topic+"/total", strconv.Itoa(report.TotalCurrentlyIn)); err != nil {
		return err
	}
	for _, z := range report.Zones {
		if err := p.send(p.topic+"/zones/"+z.ID, strconv.Itoa(z.CurrentlyIn)); err != nil {
			return err
		}
	}
	return nil
}

func (p *MQTTPublisher) send(topic string, payload interface{}) error {
	token := p.client.Publish(topic, 0, true, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish to %s timed out", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish to %s failed: %w", topic, err)
	}
	return nil
}
