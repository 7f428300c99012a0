package application

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/shareit-hub/service-booking/internal/repository"
	"github.com/shareit-hub/service-booking/internal/testutil"
	"github.com/shareit-hub/service-booking/pkg/database"
	"github.com/shareit-hub/service-booking/pkg/kafka"
)

// recordingPublisher keeps every published event in memory.
type recordingPublisher struct {
	mu     sync.Mutex
	events []kafka.CloudEvent
}

func (p *recordingPublisher) PublishEvent(_ context.Context, _ string, ce kafka.CloudEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ce)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

// mockPublisher lets a test script publish outcomes.
type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishEvent(ctx context.Context, topic string, ce kafka.CloudEvent) error {
	args := m.Called(ctx, topic, ce)
	return args.Error(0)
}

type fixture struct {
	db        *gorm.DB
	bookings  *repository.GormBookingRepository
	items     *repository.GormItemRepository
	users     *repository.GormUserRepository
	comments  *repository.GormCommentRepository
	publisher *recordingPublisher

	lifecycle   *BookingService
	queries     *BookingQueryService
	projector   *BookingProjector
	eligibility *CommentEligibility
	itemSvc     *ItemService
	commentSvc  *CommentService
	catalog     *CatalogService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithPublisher(t, &recordingPublisher{})
}

func newFixtureWithPublisher(t *testing.T, pub EventPublisher) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	log := zap.NewNop()

	f := &fixture{
		db:       db,
		bookings: repository.NewGormBookingRepository(db),
		items:    repository.NewGormItemRepository(db),
		users:    repository.NewGormUserRepository(db),
		comments: repository.NewGormCommentRepository(db),
	}
	if rp, ok := pub.(*recordingPublisher); ok {
		f.publisher = rp
	}

	f.lifecycle = NewBookingService(f.bookings, f.items, f.users, database.NewTxManager(db), pub, log)
	f.queries = NewBookingQueryService(f.bookings, f.items, f.users, log)
	f.projector = NewBookingProjector(f.bookings)
	f.eligibility = NewCommentEligibility(f.bookings)
	f.itemSvc = NewItemService(f.items, f.users, f.comments, f.projector, log)
	f.commentSvc = NewCommentService(f.comments, f.items, f.users, f.eligibility, pub, log)
	f.catalog = NewCatalogService(f.items, f.users, log)
	return f
}
