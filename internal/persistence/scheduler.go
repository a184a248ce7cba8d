package persistence

import (
	"smd/internal/providers"
	"smd/internal/services"
	"smd/internal/structures"
	"sync"
	"time"
)

type SchedulerInterface interface {
	Init()
	Stop()
	Restore() error
	Persist() error
}

// Scheduler owns the persistence lifecycle around the store: restore once
// at startup, a periodic safety flush while running, and a final persist
// on shutdown. The store itself still saves after every merge; the flush
// only covers a merge whose own save failed.
type Scheduler struct {
	config    *structures.Config
	logger    providers.Logger
	metrics   providers.MetricsProviderInterface
	service   services.MetricsServiceInterface
	stateFile *StateFile
	done      chan struct{}
	wg        sync.WaitGroup
	opsMu     sync.Mutex
}

func (s *Scheduler) Init() {
	s.done = make(chan struct{})
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.config.Persistence.SaveInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := s.Persist(); err != nil {
					continue
				}
				s.logger.Debugf(providers.TypeApp, "Persisted state to file %s", s.config.Persistence.FilePath)
			case <-s.done:
				return
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	if s.done != nil {
		close(s.done)
		s.wg.Wait()
	}
}

func (s *Scheduler) Restore() error {
	state, err := s.stateFile.Load()
	if err != nil {
		return err
	}
	s.service.Restore(state)
	return nil
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	start := time.Now()
	err := s.service.Persist()
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting state: %s", err)
		return err
	}
	s.metrics.ObservePersistenceDuration(time.Since(start))
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface, service services.MetricsServiceInterface, stateFile *StateFile) SchedulerInterface {
	return &Scheduler{
		config:    config,
		logger:    logger,
		metrics:   metrics,
		service:   service,
		stateFile: stateFile,
	}
}
