package app

import (
	"net/http"
	"strconv"

	"fxcard/pkg/fxdev"

	"github.com/gofiber/fiber/v2"
	"github.com/womat/debug"
)

// runWebServer starts the applications web server and listens for web requests.
//  It's designed to run in a separate go function to not block the main go function.
//  e.g.: go runWebServer()
//  See app.Run()
func (app *App) runWebServer() {
	err := app.web.Listen(app.urlParsed.Host)
	debug.ErrorLog.Print(err)
}

// HandleStatus reports the device identity registers and the current
// interrupt and cadence state.
func (app *App) HandleStatus() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		debug.InfoLog.Print("web request status")

		return ctx.JSON(fiber.Map{
			"id":        app.device.MMIORead(fxdev.RegID, 4),
			"liveness":  app.device.MMIORead(fxdev.RegLiveness, 4),
			"irqstatus": app.device.MMIORead(fxdev.RegIRQStatus, 4),
			"interval":  app.device.Interval(),
			"signal":    app.config.Device.Signal,
		})
	}
}

// HandleRegisterRead performs one word wide read of the register surface.
// The offset parameter accepts decimal or 0x prefixed hex.
func (app *App) HandleRegisterRead() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		offs, err := strconv.ParseUint(ctx.Params("offset"), 0, 32)
		if err != nil {
			return ctx.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}

		debug.InfoLog.Printf("web request register read 0x%x", offs)

		return ctx.JSON(fiber.Map{
			"offset": offs,
			"value":  app.device.MMIORead(offs, 4),
		})
	}
}

// HandleRegisterWrite performs one word wide write to the register
// surface. This is the host controller's path to the start, schedule-next
// and acknowledge registers.
func (app *App) HandleRegisterWrite() fiber.Handler {
	type registerWrite struct {
		Value uint64 `json:"value"`
	}

	return func(ctx *fiber.Ctx) error {
		offs, err := strconv.ParseUint(ctx.Params("offset"), 0, 32)
		if err != nil {
			return ctx.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}

		var body registerWrite
		if err := ctx.BodyParser(&body); err != nil {
			return ctx.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}

		debug.InfoLog.Printf("web request register write 0x%x = 0x%x", offs, body.Value)

		app.device.MMIOWrite(offs, body.Value, 4)
		return ctx.SendStatus(http.StatusNoContent)
	}
}
