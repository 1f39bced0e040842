// Package agents implements the four analysis nodes of the workflow.
package agents

import (
	"context"
	"fmt"

	"github.com/stocksensei/stocksensei/consts"
	"github.com/stocksensei/stocksensei/internal/dataflows"
	"github.com/stocksensei/stocksensei/internal/llm"
	"github.com/stocksensei/stocksensei/internal/models"
	"github.com/stocksensei/stocksensei/pkg/logger"
)

// Deps carries the shared dependencies for all agent nodes.
type Deps struct {
	Model llm.Generator
	Data  dataflows.Collector
}

// generate runs the model and degrades gracefully: a model failure marks
// the agent degraded and returns a fallback report instead of aborting
// the whole run.
func (d *Deps) generate(ctx context.Context, state *models.WorkflowState, agent, system, user string) string {
	content, err := d.Model.Generate(ctx, system, user)
	if err != nil {
		logger.Warnf("agent %s: model error: %v", agent, err)
		state.MarkDegraded(agent)
		return fmt.Sprintf("%s could not complete its analysis: %v", consts.DisplayName(agent), err)
	}
	return content
}

// say records an agent's report on the transcript.
func say(state *models.WorkflowState, agent, content string) {
	state.AppendMessage(models.AgentMessage{
		Agent:   agent,
		Name:    consts.DisplayName(agent),
		Content: content,
	})
}
