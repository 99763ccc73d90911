package httpapi

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/sarmeyer/solstice-sky-viewer/internal/sky"
	"github.com/sarmeyer/solstice-sky-viewer/internal/stella"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, skySvc *sky.Service, stellaSvc *stella.Service) {
	v1 := app.Group("/api/v1")

	v1.Get("/sky/objects", func(c *fiber.Ctx) error {
		q, err := parseObjectsQuery(c)
		if err != nil {
			return errorJSON(c, 400, string(sky.CodeInvalidLocation), err.Error())
		}

		resp, err := skySvc.SkyObjects(c.Context(), q.Location)
		if err != nil {
			var se *sky.Error
			if errors.As(err, &se) {
				return errorJSON(c, se.Status, string(se.Code), se.Message)
			}
			return errorJSON(c, 500, string(sky.CodeUnknown), "unexpected error")
		}

		return c.JSON(resp)
	})

	v1.Post("/sky/chat", func(c *fiber.Ctx) error {
		var req stella.ChatRequest
		if err := c.BodyParser(&req); err != nil {
			return errorJSON(c, 400, string(stella.CodeBadRequest), "malformed JSON body: "+err.Error())
		}

		reply, err := stellaSvc.Reply(c.Context(), req)
		if err != nil {
			var se *stella.Error
			if errors.As(err, &se) {
				return errorJSON(c, se.Status, string(se.Code), se.Message)
			}
			return errorJSON(c, 500, string(stella.CodeInternalError), "unexpected error")
		}

		return c.JSON(reply)
	})
}

// objectsQuery holds the query parameters of the sky objects endpoint.
type objectsQuery struct {
	Location string `validate:"required"`
}

func parseObjectsQuery(c *fiber.Ctx) (objectsQuery, error) {
	var q objectsQuery

	q.Location = strings.TrimSpace(c.Query("location"))

	if err := validate.Struct(q); err != nil {
		return q, errors.New("location query parameter is required")
	}

	return q, nil
}

// errorJSON renders the structured error envelope every failure uses.
func errorJSON(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}
