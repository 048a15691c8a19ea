package http_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/Taller-api/internal/interfaces/http"
)

func TestRegisterSwagger_SinDocumentoNoSeMontaNiEntraEnPanico(t *testing.T) {
	app := fiber.New()

	mounted := apphttp.RegisterSwagger(app, filepath.Join(t.TempDir(), "swagger.json"), "Taller API")
	assert.False(t, mounted)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/docs", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestRegisterSwagger_ConDocumentoSirveLaUI(t *testing.T) {
	path := filepath.Join(t.TempDir(), "swagger.json")
	doc := `{"swagger":"2.0","info":{"title":"Taller API","version":"1.0"},"paths":{}}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	app := fiber.New()
	require.True(t, apphttp.RegisterSwagger(app, path, "Taller API"))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/docs", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
