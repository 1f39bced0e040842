// Package debug optionally starts the eino visual debug server for
// inspecting graph runs during development.
package debug

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/devops"

	"github.com/stocksensei/stocksensei/pkg/logger"
)

// Init starts the eino devops plugin when enabled. It must run before the
// workflow graph is compiled for the graph to be visible.
func Init(ctx context.Context, enabled bool) error {
	if !enabled {
		return nil
	}
	if err := devops.Init(ctx); err != nil {
		return fmt.Errorf("initialize eino debug plugin: %w", err)
	}
	logger.Info("eino debug server started; graph runs are inspectable in the devops UI")
	return nil
}
