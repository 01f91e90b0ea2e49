package routes

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"shelfsensei/query"
)

var errInvalidID = errors.New("Invalid id")

// ErrorHandler answers every error a handler did not turn into a response
// itself with the list error envelope.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var e *fiber.Error
		if errors.As(err, &e) {
			code = e.Code
		}
		if code >= fiber.StatusInternalServerError {
			log.Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
		}
		return c.Status(code).JSON(query.ErrorEnvelope(err.Error()))
	}
}

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(moneyValue, Money{})
	return v
}

// validationMessage lists the failing fields of a validator error.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	fields := make([]string, len(verrs))
	for i, fe := range verrs {
		fields[i] = fe.Field() + " (" + fe.Tag() + ")"
	}
	return "Invalid fields: " + strings.Join(fields, ", ")
}

func paramID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return 0, errInvalidID
	}
	return uint(id), nil
}

func notFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// reply writes {key: msg}. Categories, products, shops, users and
// movements answer with "message", vendors with "error".
func reply(c *fiber.Ctx, code int, key, msg string) error {
	return c.Status(code).JSON(fiber.Map{key: msg})
}

func listError(c *fiber.Ctx, code int, err error) error {
	return c.Status(code).JSON(query.ErrorEnvelope(err.Error()))
}

var errBadBody = errors.New("Failed to parse request body")

// bind decodes the JSON body into dst and validates it.
func (h *Handler) bind(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return errBadBody
	}
	if err := h.validate.Struct(dst); err != nil {
		return errors.New(validationMessage(err))
	}
	return nil
}

// destroy deletes the record of model with the id of the request.
// Cascaded movement deletes drop cached dashboards as well.
func (h *Handler) destroy(c *fiber.Ctx, model interface{}, key, missing string) error {
	id, err := paramID(c)
	if err != nil {
		return reply(c, fiber.StatusBadRequest, key, err.Error())
	}
	res := h.DB.WithContext(c.UserContext()).Delete(model, id)
	if res.Error != nil {
		return reply(c, fiber.StatusInternalServerError, key, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return reply(c, fiber.StatusNotFound, key, missing)
	}
	h.Dashboard.Invalidate(c.UserContext())
	return c.SendStatus(fiber.StatusNoContent)
}
