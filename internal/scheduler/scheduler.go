package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"CashSentinel/internal/analytics"
	"CashSentinel/internal/config"
	"CashSentinel/internal/dedupe"
	"CashSentinel/internal/notifier"
	"CashSentinel/internal/recorder"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Analyzer runs the analytics pipeline for one business.
type Analyzer interface {
	Run(ctx context.Context, businessID string) (*analytics.Report, error)
}

// historyLimit is the number of runs shown by /history.
const historyLimit = 10

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron       *cron.Cron
	Analyzer   Analyzer
	Notifier   notifier.Notifier
	Recorder   recorder.Recorder
	Deduper    dedupe.Deduper
	Businesses []config.Business
	Logger     *logrus.Logger
	Ctx        context.Context

	adhoc sync.WaitGroup // jobs started outside cron
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, an Analyzer, n notifier.Notifier, rec recorder.Recorder, dd dedupe.Deduper,
	businesses []config.Business, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		Cron:       cron.New(cron.WithSeconds()),
		Analyzer:   an,
		Notifier:   n,
		Recorder:   rec,
		Deduper:    dd,
		Businesses: businesses,
		Logger:     logger,
		Ctx:        ctx,
	}
}

// RegisterAll registers the daily alert check and the monthly report.
func (s *Scheduler) RegisterAll(dailyCron, monthlyCron string) error {
	if _, err := s.Cron.AddFunc(dailyCron, s.dailyTask); err != nil {
		return fmt.Errorf("register daily task: %w", err)
	}
	if _, err := s.Cron.AddFunc(monthlyCron, s.monthlyTask); err != nil {
		return fmt.Errorf("register monthly task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Logger.WithField("businesses", len(s.Businesses)).Info("scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs, including RunDailyAsync.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.adhoc.Wait()
	s.Logger.Info("scheduler stopped")
}

// RunDailyAsync starts the daily task in the background. Stop waits for it to finish.
func (s *Scheduler) RunDailyAsync() {
	s.adhoc.Add(1)
	go func() {
		defer s.adhoc.Done()
		s.dailyTask()
	}()
}

// RunDailyNow executes the daily task immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunDailyNow() {
	s.dailyTask()
}

// RunMonthlyNow executes the monthly task immediately.
func (s *Scheduler) RunMonthlyNow() {
	s.monthlyTask()
}

func (s *Scheduler) dailyTask() {
	s.Logger.Info("running daily task")
	for _, b := range s.Businesses {
		rep, err := s.analyze(b)
		if err != nil {
			continue
		}
		s.deliverAlerts(b, rep)
	}
}

func (s *Scheduler) monthlyTask() {
	s.Logger.Info("running monthly task")
	for _, b := range s.Businesses {
		rep, err := s.analyze(b)
		if err != nil {
			continue
		}
		s.trySend(notifier.Message{
			Subject: fmt.Sprintf("Monthly cash report: %s", b.DisplayName()),
			Body:    notifier.FormatReport(b.DisplayName(), rep.Metrics),
		})
	}
}

// analyze runs the analyzer and records the run. Failures are reported to the channel.
func (s *Scheduler) analyze(b config.Business) (*analytics.Report, error) {
	log := s.Logger.WithField("business_id", b.ID)
	rep, err := s.Analyzer.Run(s.Ctx, b.ID)
	if err != nil {
		log.WithError(err).Error("analysis failed")
		s.trySend(notifier.Message{
			Subject: fmt.Sprintf("Analysis failed: %s", b.DisplayName()),
			Body:    fmt.Sprintf("❌ Analysis failed for %s: %v", b.DisplayName(), err),
		})
		return nil, err
	}
	if err := s.Recorder.RecordRun(recorder.SnapshotOf(rep)); err != nil {
		log.WithError(err).Error("record run")
	}
	return rep, nil
}

// deliverAlerts sends each alert at most once per de-duplication window.
func (s *Scheduler) deliverAlerts(b config.Business, rep *analytics.Report) {
	for _, a := range rep.Metrics.Alerts {
		log := s.Logger.WithFields(logrus.Fields{
			"business_id": b.ID,
			"run_id":      rep.RunID,
			"alert":       a.Kind,
		})
		key := dedupe.AlertKey(b.ID, a.Kind)
		evt := &recorder.AlertEvent{
			RunID:      rep.RunID,
			BusinessID: b.ID,
			Kind:       a.Kind,
			Severity:   a.Severity,
			Delivered:  true,
		}

		// An unavailable dedupe store never suppresses an alert.
		claimed, claimErr := s.Deduper.Claim(s.Ctx, key)
		if claimErr != nil {
			log.WithError(claimErr).Warn("dedupe claim failed, delivering anyway")
			evt.Note = "dedupe unavailable: " + claimErr.Error()
		} else if !claimed {
			log.Debug("alert already delivered in window")
			continue
		}

		err := s.Notifier.Notify(s.Ctx, notifier.Message{
			Subject: fmt.Sprintf("[%s] %s: %s", strings.ToUpper(string(a.Severity)), b.DisplayName(), a.Title),
			Body:    notifier.FormatAlert(b.DisplayName(), a),
		})
		if err != nil {
			log.WithError(err).Error("alert delivery failed")
			evt.Delivered = false
			evt.Note = joinNote(evt.Note, err.Error())
			if claimed {
				if rerr := s.Deduper.Release(s.Ctx, key); rerr != nil {
					log.WithError(rerr).Warn("dedupe release failed")
				}
			}
		} else {
			log.Info("alert delivered")
		}
		if err := s.Recorder.RecordAlert(evt); err != nil {
			log.WithError(err).Error("record alert")
		}
	}
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return s.help()
	}
	cmd := strings.ToLower(fields[0])
	if i := strings.Index(cmd, "@"); i > 0 {
		cmd = cmd[:i] // "/report@SentinelBot" in group chats
	}

	switch cmd {
	case "/report", "/alerts", "/history":
	case "/businesses":
		return s.listBusinesses()
	default:
		return s.help()
	}

	b, ok := s.resolveBusiness(fields[1:])
	if !ok {
		return "Unknown business. " + s.listBusinesses()
	}

	if cmd == "/history" {
		runs, err := s.Recorder.RecentRuns(b.ID, historyLimit)
		if err != nil {
			s.Logger.WithError(err).Error("read history")
			return fmt.Sprintf("❌ Could not read history: %v", err)
		}
		return notifier.FormatHistory(b.DisplayName(), runs)
	}

	rep, err := s.Analyzer.Run(ctx, b.ID)
	if err != nil {
		s.Logger.WithError(err).WithField("business_id", b.ID).Error("command analysis failed")
		return fmt.Sprintf("❌ Analysis failed for %s: %v", b.DisplayName(), err)
	}
	if cmd == "/alerts" {
		return notifier.FormatAlertsSummary(b.DisplayName(), rep.Metrics.Alerts)
	}
	return notifier.FormatReport(b.DisplayName(), rep.Metrics)
}

// resolveBusiness picks the business named in args, or the only configured one.
func (s *Scheduler) resolveBusiness(args []string) (config.Business, bool) {
	if len(args) == 0 {
		if len(s.Businesses) == 1 {
			return s.Businesses[0], true
		}
		return config.Business{}, false
	}
	for _, b := range s.Businesses {
		if strings.EqualFold(b.ID, args[0]) {
			return b, true
		}
	}
	return config.Business{}, false
}

func (s *Scheduler) listBusinesses() string {
	var b strings.Builder
	b.WriteString("Businesses:\n")
	for _, biz := range s.Businesses {
		b.WriteString(fmt.Sprintf("• %s (%s)\n", biz.ID, biz.DisplayName()))
	}
	return b.String()
}

func (s *Scheduler) help() string {
	return "Available commands:\n" +
		"• /report &lt;business&gt; - full cash-flow report\n" +
		"• /alerts &lt;business&gt; - current emergency alerts\n" +
		"• /history &lt;business&gt; - recent recorded runs\n" +
		"• /businesses - list monitored businesses"
}

func joinNote(a, b string) string {
	if a == "" {
		return b
	}
	return a + "; " + b
}

func (s *Scheduler) trySend(msg notifier.Message) {
	if err := s.Notifier.Notify(s.Ctx, msg); err != nil {
		s.Logger.WithError(err).Error("send notification")
	}
}
