package console

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlashRoundTrip(t *testing.T) {
	rec := httptest.NewRecorder()
	setFlash(rec, FlashError, "name: required")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	f := popFlash(httptest.NewRecorder(), req)

	require.NotNil(t, f)
	assert.Equal(t, FlashError, f.Kind)
	assert.Equal(t, "name: required", f.Message)
}

func TestLongFlashFitsInCookie(t *testing.T) {
	issues := strings.Repeat("body.monthly_income: Input should be a valid integer, ", 200)

	rec := httptest.NewRecorder()
	setFlash(rec, FlashError, issues)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Less(t, len(cookies[0].String()), 4096)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	f := popFlash(httptest.NewRecorder(), req)
	require.NotNil(t, f)
	assert.True(t, strings.HasPrefix(f.Message, "body.monthly_income"))
	assert.True(t, strings.HasSuffix(f.Message, "..."))
}

func TestTruncateMessage(t *testing.T) {
	assert.Equal(t, "short", truncateMessage("short", 10))

	cut := truncateMessage(strings.Repeat("é", 10), 8)
	assert.True(t, utf8.ValidString(cut))
	assert.LessOrEqual(t, len(cut), 8)
	assert.Equal(t, "éé...", cut)
}
