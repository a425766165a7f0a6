package console

import (
	"net/http"
	"strings"
	"time"

	"github.com/mssola/useragent"

	"hrconsole/internal/api"
)

type settingsPage struct {
	User      *api.User
	ExpiresAt time.Time
	Device    string
	Mobile    bool
}

func (h *Handler) handleSettings(w http.ResponseWriter, r *http.Request) {
	snap := h.session.Snapshot()
	ua := r.UserAgent()
	page := settingsPage{
		User:      snap.User,
		ExpiresAt: snap.ExpiresAt,
		Device:    deviceName(ua),
		Mobile:    ua != "" && useragent.New(ua).Mobile(),
	}
	h.render(w, r, http.StatusOK, "settings", "Settings", page, nil)
}

// deviceName renders a User-Agent as "Browser on OS", e.g. "Chrome on Linux x86_64".
func deviceName(userAgent string) string {
	if userAgent == "" {
		return "Unknown Device"
	}

	ua := useragent.New(userAgent)
	browser, _ := ua.Browser()
	os := ua.OS()

	if ua.Mobile() {
		if platform := ua.Platform(); platform != "" {
			return strings.TrimSpace(browser + " on " + platform)
		}
	}
	if browser == "" {
		browser = "Unknown Browser"
	}
	if os == "" {
		os = "Unknown OS"
	}
	return strings.TrimSpace(browser + " on " + os)
}
