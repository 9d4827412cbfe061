package cron

import (
	"Foryou/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

const (
	scoreReconcileSpec = "@every 1m"
	rateLimitSweepSpec = "@every 5m"
)

type Manager struct {
	engine            *cron.Cron
	scoreReconcileJob *job.ScoreReconcileJob
	rateLimitSweepJob *job.RateLimitSweepJob
}

func NewCronManager(scoreReconcileJob *job.ScoreReconcileJob, rateLimitSweepJob *job.RateLimitSweepJob) *Manager {
	return &Manager{
		engine: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		scoreReconcileJob: scoreReconcileJob,
		rateLimitSweepJob: rateLimitSweepJob,
	}
}

// RegisterJobs 注册定时任务，未启用的任务为 nil
func (s *Manager) RegisterJobs() error {
	if s.scoreReconcileJob != nil {
		if _, err := s.engine.AddJob(scoreReconcileSpec, s.scoreReconcileJob); err != nil {
			return err
		}
	}
	if s.rateLimitSweepJob != nil {
		if _, err := s.engine.AddJob(rateLimitSweepSpec, s.rateLimitSweepJob); err != nil {
			return err
		}
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

// Stop 停止调度并等待正在执行的任务结束
func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	<-s.engine.Stop().Done()
}
