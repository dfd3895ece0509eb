package app

import (
	"encoding/json"
	"time"

	"fxcard/pkg/fxdev"
	"fxcard/pkg/mqtt"

	"github.com/womat/debug"
)

// Event is the mqtt payload for interrupt and reconfiguration events.
type Event struct {
	TimeStamp time.Time
	// Type is "interrupt" or "interval"
	Type string
	// Status is the pending cause mask at the time of an interrupt event
	Status uint32 `json:",omitempty"`
	// Interval is the new base period of a reconfiguration event
	Interval uint32 `json:",omitempty"`
}

// service waits in an endless loop for interrupt line changes.
// It mirrors the line on the gpio pin and sends interrupt events to the
// mqtt broker.
func (app *App) service() {
	for {
		select {
		case <-app.shutdown:
			return
		case ev := <-app.events:
			debug.DebugLog.Printf("irq line changed: asserted=%v", ev.asserted)

			if app.pin != nil {
				if err := app.pin.Set(ev.asserted); err != nil {
					debug.ErrorLog.Printf("can't drive irq pin: %v", err)
				}
			}

			if ev.asserted {
				app.sendMQTT(app.config.MQTT.Topic, Event{
					TimeStamp: time.Now(),
					Type:      "interrupt",
					Status:    uint32(app.device.MMIORead(fxdev.RegIRQStatus, 4)),
				})
			}
		}
	}
}

// lineChanged is hooked into the device and runs under its rendezvous
// lock: hand the change to service() without blocking. A full channel
// drops the event; the register surface stays authoritative.
func (app *App) lineChanged(asserted bool) {
	select {
	case app.events <- lineEvent{asserted: asserted}:
	default:
	}
}

// setInterval is hooked into the configuration channel and publishes a
// received base period to the device and the mqtt broker.
func (app *App) setInterval(interval uint32) {
	app.device.SetInterval(interval)

	app.sendMQTT(app.config.MQTT.Topic, Event{
		TimeStamp: time.Now(),
		Type:      "interval",
		Interval:  interval,
	})
}

// sendMQTT send message struct to the mqtt broker.
func (app *App) sendMQTT(topic string, message interface{}) {
	go func(t string, r interface{}) {
		debug.TraceLog.Printf("prepare mqtt message %v %v", t, r)

		b, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			debug.ErrorLog.Printf("sendMQTT marshal: %v", err)
			return
		}

		app.mqtt.C <- mqtt.Message{
			Qos:      0,
			Retained: true,
			Topic:    t,
			Payload:  b,
		}
	}(topic, message)
}
