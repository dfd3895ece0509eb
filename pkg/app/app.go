package app

import (
	"fmt"
	"net/url"

	"fxcard/pkg/app/config"
	"fxcard/pkg/confserver"
	"fxcard/pkg/fxdev"
	"fxcard/pkg/irqpin"
	"fxcard/pkg/mqtt"

	"github.com/gofiber/fiber/v2"
	"github.com/womat/debug"
)

// App is the main application struct.
// App is where the application is wired up.
type App struct {
	// web is the fiber web framework instance
	web *fiber.App

	// config is the application configuration
	config *config.Config

	// urlParsed contains the parsed Config.Webserver.URL parameter
	urlParsed *url.URL

	// device is the fx device instance
	device *fxdev.Device

	// conf is the tcp control channel of the device
	conf *confserver.Handler

	// mqtt is the handler to the mqtt broker
	mqtt *mqtt.Handler

	// pin mirrors the level style interrupt line on a physical gpio
	pin irqpin.Pin

	// events receives interrupt line changes from the device.
	// The device delivers them under its rendezvous lock, so sends are
	// buffered and non-blocking.
	events chan lineEvent

	// shutdown signals application shutdown
	shutdown chan struct{}
}

// lineEvent is one observed change of the interrupt line.
type lineEvent struct {
	asserted bool
}

// New checks the web server URL and initializes the main app structure.
func New(cfg *config.Config) (*App, error) {
	u, err := url.Parse(cfg.Webserver.URL)
	if err != nil {
		debug.ErrorLog.Printf("Error parsing url %q: %s", cfg.Webserver.URL, err.Error())
		return &App{}, err
	}

	app := &App{
		config:    cfg,
		urlParsed: u,

		web:  fiber.New(),
		mqtt: mqtt.New(),

		events:   make(chan lineEvent, 8),
		shutdown: make(chan struct{}),
	}

	devCfg := fxdev.Config{Interval: cfg.Device.Interval}
	switch cfg.Device.Signal {
	case "level":
		devCfg.Mode = fxdev.LevelSignaled
		devCfg.SetLevel = app.lineChanged
	default:
		devCfg.Mode = fxdev.MessageSignaled
		devCfg.Notify = func() { app.lineChanged(true) }
	}
	app.device = fxdev.New(devCfg)

	return app, nil
}

// Run starts the application.
func (app *App) Run() error {
	if err := app.init(); err != nil {
		return err
	}

	go app.mqtt.Service()
	go app.runWebServer()
	go app.service()

	return nil
}

// init brings the components up in dependency order: the worker first
// (it parks in armed-wait), then the control channel listener, then the
// remaining services.
func (app *App) init() (err error) {
	app.device.Start()

	if app.config.Device.Gpio != 0 {
		if app.config.Device.Signal != "level" {
			debug.InfoLog.Print("irq pin mirror requires level signaling, pin disabled")
		} else if app.pin, err = irqpin.Open(app.config.Device.Gpio); err != nil {
			debug.ErrorLog.Printf("can't open irq pin: %v", err)
			return err
		}
	}

	addr := fmt.Sprintf(":%d", app.config.ConfServer.Port)
	if app.conf, err = confserver.Open(addr, app.setInterval); err != nil {
		debug.ErrorLog.Printf("can't open conf server: %v", err)
		return err
	}

	if err = app.mqtt.Connect(app.config.MQTT.Connection); err != nil {
		debug.ErrorLog.Printf("can't open mqtt broker: %v", err)
		return err
	}

	// initDefaultRoutes should always be called last because it may
	// access things which must be initialized before in init()
	app.initDefaultRoutes()

	return nil
}

// Shutdown returns the read only shutdown channel.
// Shutdown is used to be able to react on application shutdown. (see cmd/fxcard.go)
func (app *App) Shutdown() <-chan struct{} {
	return app.shutdown
}

// Close tears the application down: stop and join the worker before the
// synchronization state goes away, then close the control channel and
// the remaining handlers.
func (app *App) Close() error {
	close(app.shutdown)

	app.device.Stop()

	if app.conf != nil {
		_ = app.conf.Close()
	}
	if app.pin != nil {
		_ = app.pin.Close()
	}
	_ = app.mqtt.Disconnect()

	return nil
}
