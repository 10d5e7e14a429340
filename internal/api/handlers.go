// internal/api/handlers.go
package api

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber"

	"github.com/tamzrod/bot-status/internal/status"
)

const (
	mimeJSON = "application/json"
	mimeCBOR = "application/cbor"

	defaultCommandLimit = 20
)

func (as *ApiServer) getHealth(ctx *fiber.Ctx) {
	_ = ctx.JSON(fiber.Map{"status": "ok"})
}

func (as *ApiServer) getStatus(ctx *fiber.Ctx) {
	snap, err := status.Build(as.src)
	if err != nil {
		as.fail(ctx, err)
		return
	}

	var body []byte
	contentType := mimeJSON
	if strings.Contains(ctx.Get("Accept"), mimeCBOR) {
		contentType = mimeCBOR
		body, err = snap.MarshalCBOR()
	} else {
		body, err = json.Marshal(snap)
	}
	if err != nil {
		as.logger.Errorf("cannot encode status: %v", err)
		ctx.Status(fiber.StatusInternalServerError)
		_ = ctx.JSON(fiber.Map{"message": "encode failed"})
		return
	}

	ctx.Set("Content-Type", contentType)
	ctx.SendBytes(body)
}

func (as *ApiServer) getCommands(ctx *fiber.Ctx) {
	limit := defaultCommandLimit
	if q := ctx.Query("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n <= 0 {
			ctx.Status(fiber.StatusBadRequest)
			_ = ctx.JSON(fiber.Map{"message": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	if as.src == nil || as.src.Commands() == nil {
		as.fail(ctx, status.ErrInvalidInput)
		return
	}

	list, err := as.src.Commands().Recent(limit)
	if err != nil {
		as.fail(ctx, &status.SourceError{Field: "commands", Err: err})
		return
	}
	if list == nil {
		list = make([]status.Command, 0)
	}

	_ = ctx.JSON(list)
}

// fail maps builder errors onto HTTP status codes.
func (as *ApiServer) fail(ctx *fiber.Ctx, err error) {
	code := fiber.StatusInternalServerError
	if errors.Is(err, status.ErrSourceUnavailable) {
		code = fiber.StatusServiceUnavailable
	}
	as.logger.WithError(err).Warnf("%s %s failed", ctx.Method(), ctx.Path())

	ctx.Status(code)
	_ = ctx.JSON(fiber.Map{"message": err.Error()})
}
