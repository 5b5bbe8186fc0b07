package notifier

import (
	"context"
	"time"
)

// Desktop shows a tray balloon for a few seconds, then removes the tray icon.
type Desktop struct {
	iconPath string
	duration time.Duration
}

func NewDesktop(iconPath string, duration time.Duration) *Desktop {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return &Desktop{iconPath: iconPath, duration: duration}
}

func (d *Desktop) Name() string {
	return "desktop"
}

func (d *Desktop) Notify(ctx context.Context, title, message string) error {
	return d.balloon(ctx, title, message)
}
