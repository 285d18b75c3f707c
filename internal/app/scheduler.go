package app

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/salon_scheduler/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/salon_scheduler/internal/model"
	"go.uber.org/zap"
)

// Notifier доставляет текст администраторам (бот)
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// DayLister записи календарного дня
type DayLister interface {
	Day(ctx context.Context, day time.Time) ([]model.Appointment, error)
}

// Scheduler раз в день отправляет администраторам записи на завтра
type Scheduler struct {
	appointments DayLister
	notifier     Notifier
	hour         int
	loc          *time.Location
	now          func() time.Time
	logger       *zap.Logger
	stopChan     chan struct{}
}

func NewScheduler(appointments DayLister, notifier Notifier, hour int, loc *time.Location, logger *zap.Logger) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		appointments: appointments,
		notifier:     notifier,
		hour:         hour,
		loc:          loc,
		now:          time.Now,
		logger:       logger,
		stopChan:     make(chan struct{}),
	}
}

// Start запускает рассылку дайджеста в фоне
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting digest scheduler", zap.Int("hour", s.hour))
	go s.run(ctx)
}

func (s *Scheduler) Stop() {
	s.logger.Info("Stopping digest scheduler")
	close(s.stopChan)
}

func (s *Scheduler) run(ctx context.Context) {
	for {
		next := nextRun(s.now(), s.hour, s.loc)
		timer := time.NewTimer(time.Until(next))

		select {
		case <-timer.C:
			if err := s.SendDigest(ctx); err != nil {
				s.logger.Error("Failed to send digest", zap.Error(err))
			}
		case <-s.stopChan:
			timer.Stop()
			s.logger.Info("Digest task stopped")
			return
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("Digest task cancelled")
			return
		}
	}
}

// SendDigest отправляет список записей на завтра. Отменённые не включаются.
func (s *Scheduler) SendDigest(ctx context.Context) error {
	tomorrow := s.now().In(s.loc).AddDate(0, 0, 1)

	all, err := s.appointments.Day(ctx, tomorrow)
	if err != nil {
		return fmt.Errorf("list tomorrow: %w", err)
	}

	var active []model.Appointment
	for _, a := range all {
		if a.BlocksCalendar() {
			active = append(active, a)
		}
	}

	text := formatting.FormatDayList("🌙 Записи на завтра", tomorrow, active)
	if err := s.notifier.Notify(ctx, text); err != nil {
		return fmt.Errorf("notify admins: %w", err)
	}

	s.logger.Info("Digest sent",
		zap.String("day", tomorrow.Format(time.DateOnly)),
		zap.Int("appointments", len(active)),
	)
	return nil
}

// nextRun ближайший момент hour:00 в loc строго после now
func nextRun(now time.Time, hour int, loc *time.Location) time.Time {
	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), hour, 0, 0, 0, loc)
	if !next.After(local) {
		next = time.Date(local.Year(), local.Month(), local.Day()+1, hour, 0, 0, 0, loc)
	}
	return next
}
