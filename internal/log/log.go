package log

import (
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// std is logrus' standard logger, so plain logrus calls elsewhere in the
// process share the format and output of the request events.
var std = logrus.StandardLogger()

func init() {
	std.SetFormatter(&logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{logrus.FieldKeyTime: "ts"},
	})
}

// Setup sets the minimum level and the output of the event log.
func Setup(level string, out io.Writer) error {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return errors.Wrapf(err, "log level %q", level)
	}
	std.SetLevel(lvl)
	if out != nil {
		std.SetOutput(out)
	}
	return nil
}

// SetOutput redirects the event log and returns the previous writer.
func SetOutput(w io.Writer) io.Writer {
	old := std.Out
	std.SetOutput(w)
	return old
}

type customerKey struct{}

// WithCustomer tags later events of this request with the customer id.
func WithCustomer(c *fiber.Ctx, id string) {
	c.Locals(customerKey{}, id)
}

func write(level logrus.Level, kind string, c *fiber.Ctx, action string, err error, fields map[string]any) {
	e := logrus.NewEntry(std).WithField("action", action)
	if kind != "" {
		e = e.WithField("kind", kind)
	}
	if c != nil {
		e = e.WithFields(logrus.Fields{
			"ip":     c.IP(),
			"method": c.Method(),
			"path":   c.Path(),
			"status": c.Response().StatusCode(),
		})
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			e = e.WithField("req_id", rid)
		}
		if id, ok := c.Locals(customerKey{}).(string); ok && id != "" {
			e = e.WithField("customer_id", id)
		}
	}
	if len(fields) > 0 {
		e = e.WithField("fields", fields)
	}
	if err != nil {
		e = e.WithField(logrus.ErrorKey, err.Error())
	}
	e.Log(level, action)
}

// Info logs an operational event. c may be nil outside a request.
func Info(c *fiber.Ctx, action string, fields map[string]any) {
	write(logrus.InfoLevel, "", c, action, nil, fields)
}

func Audit(c *fiber.Ctx, action string, fields map[string]any) {
	write(logrus.InfoLevel, "audit", c, action, nil, fields)
}

func Security(c *fiber.Ctx, action string, fields map[string]any) {
	write(logrus.WarnLevel, "security", c, action, nil, fields)
}

func Error(c *fiber.Ctx, action string, err error, fields map[string]any) {
	write(logrus.ErrorLevel, "", c, action, err, fields)
}
