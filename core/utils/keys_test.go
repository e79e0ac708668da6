package utils

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		encode bool
		want   string
	}{
		{"PlainRaw", "report.pdf", false, "report.pdf"},
		{"PlainEncoded", "report.pdf", true, "report.pdf"},
		{"SpaceEncoded", "q1 report.pdf", true, "q1+report.pdf"},
		{"SpaceRaw", "q1 report.pdf", false, "q1 report.pdf"},
		{"SlashEncoded", "a/b.txt", true, "a%2Fb.txt"},
		{"UnicodeEncoded", "résumé.txt", true, "r%C3%A9sum%C3%A9.txt"},
		{"StarKept", "draft*v2.txt", true, "draft*v2.txt"},
		{"TildeEscaped", "~backup.txt", true, "%7Ebackup.txt"},
		{"StarAndTildeRaw", "~a*b.txt", false, "~a*b.txt"},
		{"PercentEncoded", "100%*~.txt", true, "100%25*%7E.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ObjectKey(tt.input, tt.encode))
		})
	}
}

func TestPathParam(t *testing.T) {
	app := fiber.New()
	app.Get("/:name", func(c *fiber.Ctx) error {
		return c.SendString(PathParam(c, "name"))
	})

	tests := []struct {
		path string
		want string
	}{
		{"/report.pdf", "report.pdf"},
		{"/q1%20report.pdf", "q1 report.pdf"},
		{"/a%2Fb.txt", "a/b.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil))
			require.NoError(t, err)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(body))
		})
	}
}
