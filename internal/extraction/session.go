package extraction

import (
	"context"
	"errors"
	"fmt"
	"smd/internal/models"
	"smd/internal/providers"
	"smd/internal/services"
	"sort"
	"strings"
	"sync"
)

// ErrBusy is returned while a previous chat turn is still waiting on the
// external service. The flag is advisory: it gates new user-initiated
// sends but does not cancel the outstanding request.
var ErrBusy = errors.New("extraction request already in flight")

type Reply struct {
	Text    string                   `json:"text"`
	Updated bool                     `json:"updated"`
	State   *models.UserMetricsState `json:"state,omitempty"`
}

// Session runs the chat path: heuristic gate, extraction call, merge on
// success, conversational fallback otherwise. Requests carry monotonically
// increasing ids; a response whose id is no longer the latest is discarded
// without merging, so a slow early request can never overwrite the effect
// of a later one.
type Session struct {
	mu        sync.Mutex
	inFlight  bool
	requestID uint64

	extractor Extractor
	service   services.MetricsServiceInterface
	logger    providers.Logger
	metrics   providers.MetricsProviderInterface
}

func NewSession(extractor Extractor, service services.MetricsServiceInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) *Session {
	return &Session{
		extractor: extractor,
		service:   service,
		logger:    logger,
		metrics:   metrics,
	}
}

// HandleMessage processes one user-initiated chat turn. While a turn is
// outstanding it returns ErrBusy instead of queueing.
func (s *Session) HandleMessage(ctx context.Context, text string) (Reply, error) {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return Reply{}, ErrBusy
	}
	s.inFlight = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	return s.handle(ctx, text)
}

func (s *Session) handle(ctx context.Context, text string) (Reply, error) {
	if !ShouldExtract(text) {
		s.metrics.IncExtractions("skipped")
		return s.converse(ctx, text)
	}

	s.mu.Lock()
	s.requestID++
	id := s.requestID
	s.mu.Unlock()

	update, err := s.extractor.Extract(ctx, text)

	s.mu.Lock()
	stale := id != s.requestID
	s.mu.Unlock()
	if stale {
		s.metrics.IncExtractions("stale")
		s.logger.Debugf(providers.TypeChat, "Discarded stale extraction response (request %d)", id)
		return Reply{}, nil
	}

	if err != nil {
		s.metrics.IncExtractions("error")
		s.logger.Errorf(providers.TypeChat, "Extraction call failed: %s", err)
		return Reply{Text: fmt.Sprintf("Sorry, I couldn't reach the analysis service: %s", err)}, nil
	}

	if update == nil {
		s.metrics.IncExtractions("discarded")
		return s.converse(ctx, text)
	}

	state := s.service.Merge(update)
	s.metrics.IncExtractions("merged")
	s.logger.Infof(providers.TypeChat, "Merged metrics for %s", platformList(update))

	return Reply{
		Text:    fmt.Sprintf("Got it, I've updated your %s metrics. Your dashboard reflects the new numbers.", platformList(update)),
		Updated: true,
		State:   state,
	}, nil
}

func (s *Session) converse(ctx context.Context, text string) (Reply, error) {
	answer, err := s.extractor.Generate(ctx, text)
	if err != nil {
		s.logger.Errorf(providers.TypeChat, "Conversation call failed: %s", err)
		return Reply{Text: fmt.Sprintf("Sorry, I couldn't reach the analysis service: %s", err)}, nil
	}
	return Reply{Text: answer}, nil
}

func platformList(update *models.PartialUpdate) string {
	names := make([]string, 0, len(update.Platforms))
	for p := range update.Platforms {
		names = append(names, string(p))
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
