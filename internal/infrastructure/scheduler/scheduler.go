// Package scheduler tareas periódicas de mantenimiento (cron).
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jhoicas/tikno-erp/pkg/logger"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// CartPurger elimina carritos anónimos sin actividad (lo implementa cart.UseCase).
type CartPurger interface {
	PurgeStaleSessions(ctx context.Context, ttl time.Duration) (int64, error)
}

// Scheduler envoltorio sobre robfig/cron con logging.
type Scheduler struct {
	cron *cron.Cron
	log  *logger.Logger
}

// New crea un scheduler detenido.
func New(log *logger.Logger) *Scheduler {
	if log == nil {
		log = logger.Nop()
	}
	return &Scheduler{cron: cron.New(cron.WithParser(cronParser)), log: log}
}

// AddCartJanitor programa la limpieza de carritos por sesión. ttl <= 0 no programa nada.
func (s *Scheduler) AddCartJanitor(spec string, ttl time.Duration, purger CartPurger) error {
	if ttl <= 0 {
		return nil
	}
	_, err := s.cron.AddFunc(spec, func() { s.purgeCarts(purger, ttl) })
	if err != nil {
		return fmt.Errorf("scheduler: expresión cron %q inválida: %w", spec, err)
	}
	s.log.Info().Str("spec", spec).Dur("ttl", ttl).Msg("limpieza de carritos programada")
	return nil
}

func (s *Scheduler) purgeCarts(purger CartPurger, ttl time.Duration) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Interface("panic", r).Msg("limpieza de carritos")
		}
	}()
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	n, err := purger.PurgeStaleSessions(ctx, ttl)
	if err != nil {
		s.log.Error().Err(err).Msg("limpieza de carritos")
		return
	}
	if n > 0 {
		s.log.Info().Int64("lineas", n).Msg("carritos anónimos eliminados")
	}
}

// Len cantidad de tareas programadas.
func (s *Scheduler) Len() int { return len(s.cron.Entries()) }

func (s *Scheduler) Start() { s.cron.Start() }

// Stop detiene el scheduler y espera a que terminen las tareas en curso.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}
