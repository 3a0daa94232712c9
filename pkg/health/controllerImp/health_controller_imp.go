package controllerImp

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

var appStart = time.Now()

type FlagSnapshot interface {
	Snapshot() map[string]bool
}

type HealthCtrl struct {
	db    *gorm.DB
	flags FlagSnapshot
	ping  time.Duration
}

func NewHealthCtrl(db *gorm.DB, flags FlagSnapshot) *HealthCtrl {
	return &HealthCtrl{db: db, flags: flags, ping: 800 * time.Millisecond}
}

// Check is one line of the health report. Engine checks are always OK; a
// disabled engine is reported, not failed.
type Check struct {
	OK      bool   `json:"ok"`
	Err     string `json:"err,omitempty"`
	Enabled *bool  `json:"enabled,omitempty"`
}

type Report struct {
	OK        bool             `json:"ok"`
	UptimeSec int              `json:"uptime_sec"`
	Checks    map[string]Check `json:"checks"`
	Disabled  []string         `json:"disabled_engines"`
	Time      string           `json:"time"`
}

func (h *HealthCtrl) database(ctx context.Context) Check {
	if h.db == nil {
		return Check{Err: "gorm db is nil"}
	}
	sqlDB, err := h.db.DB()
	if err != nil {
		return Check{Err: "db.DB(): " + err.Error()}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return Check{Err: "ping: " + err.Error()}
	}
	return Check{OK: true}
}

func (h *HealthCtrl) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.ping)
	defer cancel()

	db := h.database(ctx)
	r := Report{
		OK:        db.OK,
		UptimeSec: int(time.Since(appStart).Seconds()),
		Checks:    map[string]Check{"database": db},
		Disabled:  []string{},
		Time:      time.Now().UTC().Format(time.RFC3339),
	}
	if h.flags != nil {
		for name, on := range h.flags.Snapshot() {
			r.Checks[name] = Check{OK: true, Enabled: &on}
			if !on {
				r.Disabled = append(r.Disabled, name)
			}
		}
		sort.Strings(r.Disabled)
	}

	status := http.StatusOK
	if !r.OK {
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, r)
}
