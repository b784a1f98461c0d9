package checkout

import (
	"fmt"
	"time"

	"github.com/davidnier/storefront-backend/pkg/config"
)

// Hours is the checkout window in local wall-clock hours. The window is
// half-open: the store opens at OpenHour and closes at the top of CloseHour.
type Hours struct {
	OpenHour  int
	CloseHour int
}

// NewHours builds the checkout window from configuration.
func NewHours(cfg config.StoreHoursConfig) Hours {
	return Hours{OpenHour: cfg.OpenHour, CloseHour: cfg.CloseHour}
}

// IsOpen reports whether checkout is accepted at the given local time.
func (h Hours) IsOpen(at time.Time) bool {
	hour := at.Hour()
	return hour >= h.OpenHour && hour < h.CloseHour
}

// String renders the window for operator-facing messages.
func (h Hours) String() string {
	return fmt.Sprintf("%02d:00-%02d:00", h.OpenHour, h.CloseHour)
}
