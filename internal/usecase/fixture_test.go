package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"film-catalog/internal/data/entity"
	"film-catalog/internal/data/repository/memory"
	"film-catalog/internal/dto/request"
	"film-catalog/internal/events"
	"film-catalog/pkg/cache"
	"film-catalog/pkg/metrics"
	"film-catalog/pkg/utils"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap/zaptest"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.ReviewEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event events.ReviewEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Type, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type disabledCache struct{}

func (disabledCache) GetJSON(context.Context, string, any) error { return cache.ErrMiss }

func (disabledCache) SetJSON(context.Context, string, any, time.Duration) error { return nil }

func (disabledCache) Delete(context.Context, ...string) error { return nil }

func (disabledCache) Enabled() bool { return false }

func (disabledCache) Close() error { return nil }

type fixture struct {
	store     *memory.Store
	svc       *Service
	publisher *recordingPublisher
	metrics   *metrics.Metrics
}

const testThreshold = 10

func newFixture(t *testing.T) *fixture {
	return newFixtureWithCache(t, disabledCache{})
}

func newFixtureWithCache(t *testing.T, c cache.Client) *fixture {
	t.Helper()

	store := memory.New()
	publisher := &recordingPublisher{}
	m := metrics.NewWithRegistry(prometheus.NewRegistry(), prometheus.NewRegistry())

	config := &utils.Config{
		Moderation: utils.ModerationConfig{AutoHideThreshold: testThreshold},
		Redis:      utils.RedisConfig{TTL: time.Minute},
	}

	svc := NewService(Dependencies{
		Repo:      store.Repository(),
		Tx:        store.Transactor(),
		Cache:     c,
		Publisher: publisher,
		Metrics:   m,
	}, config, zaptest.NewLogger(t))

	return &fixture{store: store, svc: svc, publisher: publisher, metrics: m}
}

func (f *fixture) user(role entity.UserRole) Caller {
	id := uuid.New()
	name := "user-" + id.String()[:8]
	f.store.SeedUser(entity.User{
		Row:        entity.Row{ID: id, CreatedAt: time.Now()},
		Username:   name,
		Email:      name + "@example.com",
		Role:       role,
	})
	return Caller{UserID: id, Role: role}
}

func (f *fixture) movie(title string) string {
	id := uuid.New()
	f.store.SeedMovie(entity.Movie{
		Row:             entity.Row{ID: id, CreatedAt: time.Now()},
		Title:           title,
		ReleaseYear:     1999,
		DurationMinutes: 120,
		ContentRating:   "R",
		Genres:          []string{"Drama"},
	})
	return id.String()
}

// reviewed marks the movie watched for caller and writes a review.
func (f *fixture) reviewed(t *testing.T, caller Caller, movieID string) string {
	t.Helper()
	ctx := context.Background()
	if _, err := f.svc.Watch.MarkWatched(ctx, caller.UserID, movieID); err != nil {
		t.Fatalf("mark watched: %v", err)
	}
	review, err := f.svc.Review.CreateReview(ctx, caller, movieID, validReview())
	if err != nil {
		t.Fatalf("create review: %v", err)
	}
	return review.ID
}

func validReview() *request.CreateReviewRequest {
	return &request.CreateReviewRequest{
		Content: "Patient and precise, with a final act that lands.",
		Scores:  request.ScoresRequest{Direction: 8, Screenplay: 7, Cinematography: 9, General: 8},
	}
}

var errPublish = errors.New("broker unavailable")
