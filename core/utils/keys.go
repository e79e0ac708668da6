package utils

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// formEscaper adjusts url.QueryEscape output to the classic form-encoding
// alphabet, where '*' is left alone and '~' is escaped.
var formEscaper = strings.NewReplacer("%2A", "*", "~", "%7E")

// ObjectKey maps a client filename to the object key it is stored under.
// With encode set, the name is form-encoded (spaces become '+', '/' becomes %2F).
// Only letters, digits and ".-*_" pass through unescaped.
func ObjectKey(name string, encode bool) string {
	if !encode {
		return name
	}
	return formEscaper.Replace(url.QueryEscape(name))
}

// PathParam returns the percent-decoded route parameter.
// A malformed escape sequence leaves the raw value untouched.
func PathParam(c *fiber.Ctx, name string) string {
	raw := c.Params(name)
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}
