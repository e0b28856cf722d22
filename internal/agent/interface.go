package agent

import "context"

// Agent is a background job the Scheduler can run on a cron schedule or on demand.
type Agent interface {
	// GetName returns the unique agent name used in logs and RunAgentByName.
	GetName() string

	// GetSchedule returns a cron expression such as "*/15 * * * *".
	// An empty string registers the agent as on-demand only.
	GetSchedule() string

	// Execute runs one pass of the job.
	Execute(ctx context.Context) error
}
