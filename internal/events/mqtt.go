package events

import (
	"encoding/json"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/sirupsen/logrus"
)

// MQTTPublisher forwards bus events to an MQTT broker so external
// systems can follow fleet maintenance activity.
type MQTTPublisher struct {
	client mqtt.Client
	topic  string
}

// NewMQTTPublisher connects to the broker and returns a publisher. The
// caller should subscribe it to a Bus with AttachTo.
func NewMQTTPublisher(brokerURL, clientID, topic string) (*MQTTPublisher, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID(clientID).
		SetConnectTimeout(5 * time.Second).
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		return nil, err
	}
	return &MQTTPublisher{client: client, topic: topic}, nil
}

// AttachTo subscribes the publisher to every event on the bus.
func (p *MQTTPublisher) AttachTo(bus *Bus) {
	bus.SubscribeAll(p.publish)
}

func (p *MQTTPublisher) publish(ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		logrus.Errorf("Failed to marshal event %s: %v", ev.Type, err)
		return
	}
	token := p.client.Publish(p.topic, 0, false, payload)
	go func() {
		token.Wait()
		if err := token.Error(); err != nil {
			logrus.Errorf("Failed to publish event %s: %v", ev.Type, err)
		}
	}()
}

// Close disconnects from the broker.
func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
}
