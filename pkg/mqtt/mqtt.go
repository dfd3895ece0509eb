// Package mqtt publishes device events to an mqtt broker.
package mqtt

import (
	mqttlib "github.com/eclipse/paho.mqtt.golang"
	"github.com/womat/debug"
)

// quiesce is the specified number of milliseconds to wait for existing work to be completed.
const quiesce = 250

// Handler contains the handler of the mqtt broker.
type Handler struct {
	handler mqttlib.Client

	// C is the channel to service the mqtt messages,
	// sending a message to channel C will publish the message.
	C chan Message
}

// Message contains the properties of the mqtt message.
type Message struct {
	Topic    string
	Payload  []byte
	Qos      byte
	Retained bool
}

// New generate a new mqtt broker client.
func New() *Handler {
	return &Handler{
		C: make(chan Message, 8),
	}
}

// Connect connects to the mqtt broker.
// If no broker is defined, no mqtt messages are sent.
func (m *Handler) Connect(broker string) error {
	if broker == "" {
		return nil
	}

	opts := mqttlib.NewClientOptions().AddBroker(broker)
	m.handler = mqttlib.NewClient(opts)
	return m.reconnect()
}

// reconnect reconnects to the defined mqtt broker.
func (m *Handler) reconnect() error {
	t := m.handler.Connect()
	<-t.Done()
	return t.Error()
}

// Disconnect will end the connection to the broker.
func (m *Handler) Disconnect() error {
	if m.handler == nil {
		return nil
	}

	m.handler.Disconnect(quiesce)
	return nil
}

// Service listens for messages on channel C and publishes them.
// If no broker or no topic is defined, the message is dropped.
// Designed to run as a go function, see app.Run().
func (m *Handler) Service() {
	for msg := range m.C {
		if m.handler == nil || msg.Topic == "" {
			continue
		}

		if !m.handler.IsConnected() {
			debug.DebugLog.Print("mqtt broker isn't connected, reconnect it")

			if err := m.reconnect(); err != nil {
				debug.ErrorLog.Printf("can't reconnect to mqtt broker: %v", err)
				continue
			}
		}

		debug.DebugLog.Printf("publishing %v bytes to topic %v", len(msg.Payload), msg.Topic)
		t := m.handler.Publish(msg.Topic, msg.Qos, msg.Retained, msg.Payload)

		// the asynchronous nature of this library makes it easy to forget
		// to check for errors, so log them from a go routine
		go func(topic string, t mqttlib.Token) {
			<-t.Done()
			if err := t.Error(); err != nil {
				debug.ErrorLog.Printf("publishing topic %v: %v", topic, err)
			}
		}(msg.Topic, t)
	}
}
