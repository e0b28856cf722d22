package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"octofit.com/tracker/pkg/logger"
)

// Scheduler owns the cron runner and the registered agents.
type Scheduler struct {
	cron   *cron.Cron
	agents []Agent
	logger *zap.Logger
}

func NewScheduler(log *zap.Logger) *Scheduler {
	return &Scheduler{
		// Skip a tick rather than overlap a run that is still going.
		cron:   cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		agents: make([]Agent, 0),
		logger: logger.OrNop(log).Named("scheduler"),
	}
}

// RegisterAgent adds agent and schedules it when it has a cron expression.
func (s *Scheduler) RegisterAgent(agent Agent) error {
	schedule := agent.GetSchedule()
	if schedule != "" {
		_, err := s.cron.AddFunc(schedule, func() {
			s.run(context.Background(), agent)
		})
		if err != nil {
			return fmt.Errorf("failed to schedule agent %s: %w", agent.GetName(), err)
		}
		s.logger.Info("agent scheduled", zap.String("agent", agent.GetName()), zap.String("cron", schedule))
	} else {
		s.logger.Info("agent registered on demand", zap.String("agent", agent.GetName()))
	}

	s.agents = append(s.agents, agent)
	return nil
}

func (s *Scheduler) run(ctx context.Context, agent Agent) {
	start := time.Now()
	if err := agent.Execute(ctx); err != nil {
		s.logger.Error("agent job failed", zap.String("agent", agent.GetName()), zap.Error(err))
		return
	}
	s.logger.Info("agent job completed",
		zap.String("agent", agent.GetName()),
		zap.Duration("elapsed", time.Since(start)),
	)
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", zap.Int("agents", len(s.agents)))
}

// Stop halts the cron runner and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
	s.logger.Info("scheduler stopped")
}

// RunAgentByName executes a registered agent immediately.
func (s *Scheduler) RunAgentByName(ctx context.Context, name string) error {
	for _, agent := range s.agents {
		if agent.GetName() == name {
			return agent.Execute(ctx)
		}
	}
	return fmt.Errorf("agent %q is not registered", name)
}

func (s *Scheduler) GetRegisteredAgents() []string {
	names := make([]string, len(s.agents))
	for i, agent := range s.agents {
		names[i] = agent.GetName()
	}
	return names
}
