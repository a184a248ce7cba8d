package extraction

import (
	"context"
	"errors"
	"smd/internal/models"
	"smd/internal/services"
	"smd/internal/testutil"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(extractor Extractor) (*Session, services.MetricsServiceInterface, *testutil.MockMetrics) {
	service := services.NewMetricsService(&testutil.MockPersister{})
	metrics := testutil.NewMockMetrics()
	session := NewSession(extractor, service, &testutil.MockLogger{}, metrics)
	return session, service, metrics
}

func TestSession_MergesExtractedMetrics(t *testing.T) {
	extractor := &testutil.MockExtractor{
		ExtractFn: func(_ context.Context, _ string) (*models.PartialUpdate, error) {
			return &models.PartialUpdate{Platforms: map[models.Platform]models.PlatformMetrics{
				models.PlatformInstagram: {Followers: 52000, EngagementRate: 4.2},
			}}, nil
		},
	}
	session, service, metrics := newTestSession(extractor)

	reply, err := session.HandleMessage(context.Background(), "Instagram hit 52K followers")
	require.NoError(t, err)
	assert.True(t, reply.Updated)
	assert.Contains(t, reply.Text, "instagram")
	require.NotNil(t, reply.State)
	assert.Equal(t, 52000.0, reply.State.Platforms[models.PlatformInstagram].Followers)
	assert.Equal(t, 52000.0, service.Snapshot().Platforms[models.PlatformInstagram].Followers)
	assert.Equal(t, 1, metrics.Outcome("merged"))
}

func TestSession_NoMetricsFallsBackToConversation(t *testing.T) {
	extractor := &testutil.MockExtractor{
		ExtractFn: func(_ context.Context, _ string) (*models.PartialUpdate, error) {
			return nil, nil
		},
		GenerateFn: func(_ context.Context, _ string) (string, error) {
			return "Try posting at peak hours.", nil
		},
	}
	session, service, metrics := newTestSession(extractor)

	reply, err := session.HandleMessage(context.Background(), "my instagram engagement feels low, around 2")
	require.NoError(t, err)
	assert.False(t, reply.Updated)
	assert.Equal(t, "Try posting at peak hours.", reply.Text)
	assert.False(t, service.Snapshot().HasData)
	assert.Equal(t, 1, metrics.Outcome("discarded"))
}

func TestSession_NonMetricMessageSkipsExtraction(t *testing.T) {
	extractCalled := false
	extractor := &testutil.MockExtractor{
		ExtractFn: func(_ context.Context, _ string) (*models.PartialUpdate, error) {
			extractCalled = true
			return nil, nil
		},
		GenerateFn: func(_ context.Context, _ string) (string, error) {
			return "Hello!", nil
		},
	}
	session, _, metrics := newTestSession(extractor)

	reply, err := session.HandleMessage(context.Background(), "hello there")
	require.NoError(t, err)
	assert.False(t, extractCalled)
	assert.Equal(t, "Hello!", reply.Text)
	assert.Equal(t, 1, metrics.Outcome("skipped"))
}

func TestSession_ExtractionErrorProducesApology(t *testing.T) {
	extractor := &testutil.MockExtractor{
		ExtractFn: func(_ context.Context, _ string) (*models.PartialUpdate, error) {
			return nil, errors.New("generation service: quota exceeded")
		},
	}
	session, service, metrics := newTestSession(extractor)

	reply, err := session.HandleMessage(context.Background(), "twitter followers at 800")
	require.NoError(t, err)
	assert.False(t, reply.Updated)
	assert.Contains(t, reply.Text, "couldn't reach the analysis service")
	assert.Contains(t, reply.Text, "quota exceeded")
	assert.False(t, service.Snapshot().HasData)
	assert.Equal(t, 1, metrics.Outcome("error"))
}

func TestSession_BusyWhileInFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	extractor := &testutil.MockExtractor{
		ExtractFn: func(_ context.Context, _ string) (*models.PartialUpdate, error) {
			close(started)
			<-release
			return nil, nil
		},
		GenerateFn: func(_ context.Context, _ string) (string, error) {
			return "done", nil
		},
	}
	session, _, _ := newTestSession(extractor)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := session.HandleMessage(context.Background(), "tiktok reach 5000")
		assert.NoError(t, err)
	}()

	<-started
	_, err := session.HandleMessage(context.Background(), "instagram followers 100")
	assert.ErrorIs(t, err, ErrBusy)

	close(release)
	wg.Wait()

	// Flag cleared after the turn finishes.
	reply, err := session.HandleMessage(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "done", reply.Text)
}

func TestSession_StaleResponseDiscarded(t *testing.T) {
	extractor := &testutil.MockExtractor{}
	session, service, metrics := newTestSession(extractor)

	extractor.ExtractFn = func(_ context.Context, _ string) (*models.PartialUpdate, error) {
		// A newer request is issued while this one is still waiting.
		session.mu.Lock()
		session.requestID++
		session.mu.Unlock()
		return &models.PartialUpdate{Platforms: map[models.Platform]models.PlatformMetrics{
			models.PlatformInstagram: {Followers: 1},
		}}, nil
	}

	reply, err := session.handle(context.Background(), "instagram followers 1")
	require.NoError(t, err)
	assert.False(t, reply.Updated)
	assert.Empty(t, reply.Text)
	assert.False(t, service.Snapshot().HasData)
	assert.Equal(t, 1, metrics.Outcome("stale"))
}

func TestSession_ConversationErrorProducesApology(t *testing.T) {
	extractor := &testutil.MockExtractor{
		GenerateFn: func(_ context.Context, _ string) (string, error) {
			return "", errors.New("timeout")
		},
	}
	session, _, _ := newTestSession(extractor)

	reply, err := session.HandleMessage(context.Background(), "how are you")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "couldn't reach the analysis service")
}
