// Package health reports liveness and readiness of the service.
package health

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Checker represents a dependency health check.
type Checker interface {
	Name() string
	Check(ctx context.Context) error
}

const (
	DatabaseConnected    = "connected"
	DatabaseDisconnected = "disconnected"
	DatabaseError        = "error"

	StatusOK       = "ok"
	StatusReady    = "ready"
	StatusNotReady = "not_ready"

	dependencyFailed = "error"

	timestampLayout = "2006-01-02T15:04:05.000Z07:00"
)

type Liveness struct {
	Status      string  `json:"status" example:"ok"`
	Timestamp   string  `json:"timestamp" example:"2025-10-08T16:10:00.000Z"`
	Uptime      float64 `json:"uptime" example:"123.45"`
	Environment string  `json:"environment" example:"production"`
}

type Readiness struct {
	Status    string `json:"status" example:"ready"`
	Timestamp string `json:"timestamp" example:"2025-10-08T16:10:00.000Z"`
	Database  string `json:"database" example:"connected"`
	// Dependencies holds optional services; they never affect Status.
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

type Service struct {
	Database     Checker
	Dependencies []Checker
	Environment  string
	Logger       *logrus.Logger

	started time.Time
	now     func() time.Time
}

// NewService builds the health service. A nil database checker means no
// store is connected and readiness reports "disconnected".
func NewService(env string, database Checker, logger *logrus.Logger, deps ...Checker) *Service {
	if env == "" {
		env = "development"
	}
	return &Service{
		Database:     database,
		Dependencies: deps,
		Environment:  env,
		Logger:       logger,
		started:      time.Now(),
		now:          time.Now,
	}
}

func (s *Service) Liveness() Liveness {
	now := s.now()
	return Liveness{
		Status:      StatusOK,
		Timestamp:   now.UTC().Format(timestampLayout),
		Uptime:      now.Sub(s.started).Seconds(),
		Environment: s.Environment,
	}
}

// Readiness never fails; a failing database ping is reported as "error".
func (s *Service) Readiness(ctx context.Context) Readiness {
	db := DatabaseDisconnected
	if s.Database != nil {
		if err := s.Database.Check(ctx); err != nil {
			db = DatabaseError
			s.warn(s.Database.Name(), err)
		} else {
			db = DatabaseConnected
		}
	}

	r := Readiness{
		Status:    StatusNotReady,
		Timestamp: s.now().UTC().Format(timestampLayout),
		Database:  db,
	}
	if db == DatabaseConnected {
		r.Status = StatusReady
	}

	if len(s.Dependencies) > 0 {
		r.Dependencies = make(map[string]string, len(s.Dependencies))
		for _, ch := range s.Dependencies {
			if err := ch.Check(ctx); err != nil {
				r.Dependencies[ch.Name()] = dependencyFailed
				s.warn(ch.Name(), err)
				continue
			}
			r.Dependencies[ch.Name()] = StatusOK
		}
	}
	return r
}

func (s *Service) warn(name string, err error) {
	if s.Logger != nil {
		s.Logger.WithError(err).WithField("checker", name).Warn("health check failed")
	}
}
