package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestNewAppHealthAndAuth(t *testing.T) {
	setConfigDefaults()
	viper.Set("JWT_SECRET", "test_jwt_secret")

	db, err := gorm.Open(sqlite.Open("file:mainapp?mode=memory&cache=shared"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	app, err := NewApp(db, nil)
	require.NoError(t, err)

	// Health endpoint is public.
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Report endpoints are not.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/reports?date=2024-01-01", nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestOpenDatabaseRejectsUnknownDriver(t *testing.T) {
	setConfigDefaults()
	viper.Set("DATABASE_DRIVER", "oracle")
	defer viper.Set("DATABASE_DRIVER", "sqlite")

	_, err := openDatabase()
	assert.Error(t, err)
}
