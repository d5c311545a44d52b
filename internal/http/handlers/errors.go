package handlers

import (
	"errors"
	"sort"

	"github.com/gofiber/fiber/v2"

	"shopkeep/internal/domain"
	applog "shopkeep/internal/log"
	"shopkeep/internal/validate"
)

const (
	msgNotEnoughStock = "Not enough stock available."
	msgItemNotFound   = "This item is no longer available"
)

// classify maps a service error to a status code and the field errors shown
// to the user. serverMsg is what an infrastructure failure looks like.
func classify(err error, serverMsg string) (int, map[string][]string) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return fiber.StatusUnprocessableEntity, verr.Fields
	case errors.Is(err, domain.ErrInvalidArgument):
		return fiber.StatusUnprocessableEntity, map[string][]string{"quantity": {validate.MsgSellQty}}
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusConflict, map[string][]string{"quantity": {msgNotEnoughStock}}
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, map[string][]string{"_server": {msgItemNotFound}}
	default:
		return fiber.StatusInternalServerError, map[string][]string{"_server": {serverMsg}}
	}
}

// logOutcome writes a refused request at warn and an infrastructure
// failure at error. Declined sales are refusals.
func logOutcome(c *fiber.Ctx, action string, status int, err error, fields map[string]any) {
	if status >= fiber.StatusInternalServerError {
		applog.Error(c, action+".fail", err, fields)
		return
	}
	if fields == nil {
		fields = map[string]any{}
	}
	fields["reason"] = err.Error()
	applog.Warn(c, action+".refused", fields)
}

func fieldNames(fields map[string][]string) []string {
	out := make([]string, 0, len(fields))
	for f := range fields {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}
