package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func paramsFor(rawQuery string) CursorParams {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?"+rawQuery, nil)
	rec := httptest.NewRecorder()
	return GetCursorParams(e.NewContext(req, rec))
}

func TestGetCursorParamsDefaults(t *testing.T) {
	params := paramsFor("")
	assert.Equal(t, 50, params.Limit)
	assert.True(t, params.Cursor.IsZero())
}

func TestGetCursorParamsLimitBounds(t *testing.T) {
	assert.Equal(t, 20, paramsFor("limit=20").Limit)
	assert.Equal(t, 50, paramsFor("limit=500").Limit)
	assert.Equal(t, 50, paramsFor("limit=-1").Limit)
	assert.Equal(t, 50, paramsFor("limit=abc").Limit)
}

func TestGetCursorParamsParsesCursor(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 30, 45, 123456789, time.UTC)

	params := paramsFor("cursor=" + at.Format(time.RFC3339Nano))
	assert.True(t, params.Cursor.Equal(at))
	assert.Empty(t, params.CursorID)

	params = paramsFor("cursor=" + at.Format(time.RFC3339Nano) + "_msg-42")
	assert.True(t, params.Cursor.Equal(at))
	assert.Equal(t, "msg-42", params.CursorID)

	params = paramsFor("cursor=not-a-time")
	assert.True(t, params.Cursor.IsZero())
	assert.Empty(t, params.CursorID)
}

func TestNextCursorRoundTrips(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 30, 45, 123456789, time.UTC)
	params := paramsFor("cursor=" + NextCursor(at, "msg-42"))
	assert.True(t, params.Cursor.Equal(at))
	assert.Equal(t, "msg-42", params.CursorID)
}
