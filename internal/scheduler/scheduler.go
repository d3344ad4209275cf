package scheduler

import (
	"time"

	"github.com/go-co-op/gocron"
	"github.com/lshigami/Linnet/internal/service"
	"github.com/rs/zerolog/log"
)

// Scheduler runs the periodic calibration batch. It is the only
// background job in the engine; calibration has no real-time deadline,
// so a simple interval schedule is enough.
type Scheduler struct {
	scheduler   *gocron.Scheduler
	calibration service.CalibrationService
	interval    time.Duration
}

func New(calibration service.CalibrationService, intervalHours int) *Scheduler {
	if intervalHours <= 0 {
		intervalHours = 24
	}
	return &Scheduler{
		scheduler:   gocron.NewScheduler(time.UTC),
		calibration: calibration,
		interval:    time.Duration(intervalHours) * time.Hour,
	}
}

// Start registers the calibration job and begins running it in the
// background.
func (s *Scheduler) Start() {
	if _, err := s.scheduler.Every(s.interval).Do(s.runCalibration); err != nil {
		log.Error().Err(err).Msg("Failed to schedule calibration job")
		return
	}
	s.scheduler.StartAsync()
	log.Info().Dur("interval", s.interval).Msg("Calibration scheduler started")
}

func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) runCalibration() {
	report, err := s.calibration.CalibrateAll()
	if err != nil {
		log.Error().Err(err).Msg("Scheduled calibration batch failed")
		return
	}
	log.Info().Int("calibrated", report.Calibrated).Int("warnings", report.Warnings).
		Msg("Scheduled calibration batch finished")
}
