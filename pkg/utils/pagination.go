package utils

import (
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// CursorParams represents created_at cursor pagination parameters.
type CursorParams struct {
	Cursor   time.Time
	CursorID string
	Limit    int
}

// GetCursorParams extracts cursor pagination parameters from the request.
// The cursor is `<created_at RFC3339Nano>_<id>` of the last message the
// client already holds; messages strictly after it are returned. The id
// part breaks ties between messages sharing a timestamp. A bare timestamp
// is accepted too.
func GetCursorParams(c echo.Context) CursorParams {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var cursor time.Time
	var cursorID string
	if raw := c.QueryParam("cursor"); raw != "" {
		ts := raw
		if at := strings.IndexByte(raw, '_'); at >= 0 {
			ts, cursorID = raw[:at], raw[at+1:]
		}
		if parsed, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			cursor = parsed
		} else {
			cursorID = ""
		}
	}

	return CursorParams{
		Cursor:   cursor,
		CursorID: cursorID,
		Limit:    limit,
	}
}

// NextCursor formats the (created_at, id) pair of the last returned row as
// the cursor for the next page.
func NextCursor(t time.Time, id string) string {
	return t.UTC().Format(time.RFC3339Nano) + "_" + id
}
