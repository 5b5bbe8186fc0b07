//go:build !windows

package notifier

import (
	"context"
	"fmt"

	"github.com/semmidev/robobak/internal/domain"
)

func (d *Desktop) balloon(ctx context.Context, title, message string) error {
	return fmt.Errorf("tray balloon: %w", domain.ErrUnsupported)
}
