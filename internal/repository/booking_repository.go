package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"

	bookingDomain "github.com/shareit-hub/service-booking/internal/domain/booking"
	"github.com/shareit-hub/service-booking/pkg/database"
	"github.com/shareit-hub/service-booking/pkg/domain"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	StartDate time.Time `gorm:"column:start_date;not null;index:idx_bookings_item_start,priority:2"`
	EndDate   time.Time `gorm:"column:end_date;not null"`
	ItemID    int64     `gorm:"not null;index:idx_bookings_item_start,priority:1"`
	BookerID  int64     `gorm:"not null;index"`
	Status    string    `gorm:"not null;size:20;index"`
	Version   int64     `gorm:"not null;default:1"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

const bookingColumns = "id, start_date, end_date, item_id, booker_id, status, version, created_at, updated_at"

// GormBookingRepository is the GORM-based implementation of BookingRepository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a booking by its identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id int64) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := database.Conn(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", strconv.FormatInt(id, 10))
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// Save inserts a new booking and assigns the generated id.
func (r *GormBookingRepository) Save(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)
	if err := database.Conn(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save booking: %w", err)
	}
	bk.AssignID(model.ID)
	return nil
}

// UpdateStatus writes the new status only if the row is still WAITING at the
// version the booking was loaded with.
func (r *GormBookingRepository) UpdateStatus(ctx context.Context, bk *bookingDomain.Booking) error {
	expectedVersion := bk.Version() - 1
	result := database.Conn(ctx, r.db).
		Model(&BookingModel{}).
		Where("id = ? AND version = ? AND status = ?", bk.ID(), expectedVersion, string(bookingDomain.StatusWaiting)).
		Updates(map[string]interface{}{
			"status":     string(bk.Status()),
			"version":    bk.Version(),
			"updated_at": bk.UpdatedAt().UTC(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update booking status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewBadRequestError("The status of this booking has already been changed")
	}
	return nil
}

// Delete removes a booking by id.
func (r *GormBookingRepository) Delete(ctx context.Context, id int64) error {
	if err := database.Conn(ctx, r.db).Where("id = ?", id).Delete(&BookingModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	return nil
}

// List returns one page of bookings for a booker or for a set of items,
// filtered by state and ordered by start descending.
func (r *GormBookingRepository) List(ctx context.Context, q bookingDomain.ListQuery) ([]*bookingDomain.Booking, error) {
	query := database.Conn(ctx, r.db).Model(&BookingModel{})

	switch q.Role {
	case bookingDomain.RoleOwner:
		if len(q.ItemIDs) == 0 {
			return []*bookingDomain.Booking{}, nil
		}
		query = query.Where("item_id IN ?", q.ItemIDs)
	default:
		query = query.Where("booker_id = ?", q.BookerID)
	}

	query = applyState(query, q.State, q.Role, q.Now.UTC())

	var models []BookingModel
	if err := query.
		Order("start_date DESC").
		Order("id DESC").
		Offset(q.Page.Offset()).
		Limit(q.Page.Limit()).
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return toDomainBookings(models)
}

func applyState(query *gorm.DB, state bookingDomain.State, role bookingDomain.Role, now time.Time) *gorm.DB {
	switch state {
	case bookingDomain.StateCurrent:
		return query.Where("start_date < ? AND end_date > ?", now, now)
	case bookingDomain.StateFuture:
		query = query.Where("start_date > ?", now)
		if role == bookingDomain.RoleOwner {
			query = query.Where("status <> ?", string(bookingDomain.StatusRejected))
		}
		return query
	case bookingDomain.StatePast:
		return query.Where("end_date < ? AND status NOT IN ?", now,
			bookingDomain.StatusStrings(bookingDomain.StatusWaiting, bookingDomain.StatusRejected))
	case bookingDomain.StateWaiting:
		return query.Where("status = ?", string(bookingDomain.StatusWaiting))
	case bookingDomain.StateRejected:
		return query.Where("status = ?", string(bookingDomain.StatusRejected))
	default:
		return query
	}
}

// lastScope selects completed bookings that ended or are ongoing at now.
func lastScope(now time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("status IN ?", bookingDomain.StatusStrings(bookingDomain.CompletedStatuses...)).
			Where("(end_date < ? OR (start_date < ? AND end_date > ?))", now, now, now)
	}
}

// nextScope selects upcoming bookings that start after now.
func nextScope(now time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("status IN ?", bookingDomain.StatusStrings(bookingDomain.UpcomingStatuses...)).
			Where("start_date > ?", now)
	}
}

const (
	lastOrder = "end_date DESC, id DESC"
	nextOrder = "start_date ASC, id ASC"
)

// FindLastNext resolves the last and next booking of one item.
func (r *GormBookingRepository) FindLastNext(ctx context.Context, itemID int64, now time.Time) (bookingDomain.LastNext, error) {
	now = now.UTC()
	conn := database.Conn(ctx, r.db)

	var result bookingDomain.LastNext

	var last []BookingModel
	if err := lastScope(now)(conn.Model(&BookingModel{}).Where("item_id = ?", itemID)).
		Order(lastOrder).
		Limit(1).
		Find(&last).Error; err != nil {
		return result, fmt.Errorf("failed to find last booking: %w", err)
	}
	if len(last) > 0 {
		bk, err := toDomainBooking(&last[0])
		if err != nil {
			return result, err
		}
		result.Last = bk
	}

	var next []BookingModel
	if err := nextScope(now)(conn.Model(&BookingModel{}).Where("item_id = ?", itemID)).
		Order(nextOrder).
		Limit(1).
		Find(&next).Error; err != nil {
		return result, fmt.Errorf("failed to find next booking: %w", err)
	}
	if len(next) > 0 {
		bk, err := toDomainBooking(&next[0])
		if err != nil {
			return result, err
		}
		result.Next = bk
	}

	return result, nil
}

// FindLastNextBatch resolves last and next for every item in two queries,
// ranking candidates per item with ROW_NUMBER.
func (r *GormBookingRepository) FindLastNextBatch(ctx context.Context, itemIDs []int64, now time.Time) (map[int64]bookingDomain.LastNext, error) {
	result := make(map[int64]bookingDomain.LastNext, len(itemIDs))
	for _, id := range itemIDs {
		result[id] = bookingDomain.LastNext{}
	}
	if len(itemIDs) == 0 {
		return result, nil
	}

	now = now.UTC()
	conn := database.Conn(ctx, r.db)

	last, err := r.findRanked(conn, itemIDs, lastScope(now), lastOrder)
	if err != nil {
		return nil, fmt.Errorf("failed to find last bookings: %w", err)
	}
	for i := range last {
		bk, err := toDomainBooking(&last[i])
		if err != nil {
			return nil, err
		}
		ln := result[bk.ItemID()]
		ln.Last = bk
		result[bk.ItemID()] = ln
	}

	next, err := r.findRanked(conn, itemIDs, nextScope(now), nextOrder)
	if err != nil {
		return nil, fmt.Errorf("failed to find next bookings: %w", err)
	}
	for i := range next {
		bk, err := toDomainBooking(&next[i])
		if err != nil {
			return nil, err
		}
		ln := result[bk.ItemID()]
		ln.Next = bk
		result[bk.ItemID()] = ln
	}

	return result, nil
}

func (r *GormBookingRepository) findRanked(conn *gorm.DB, itemIDs []int64, scope func(*gorm.DB) *gorm.DB, order string) ([]BookingModel, error) {
	ranked := scope(conn.Model(&BookingModel{}).
		Select(bookingColumns+", ROW_NUMBER() OVER (PARTITION BY item_id ORDER BY "+order+") AS rn").
		Where("item_id IN ?", itemIDs))

	var models []BookingModel
	err := conn.Table("(?) AS ranked", ranked).
		Select(bookingColumns).
		Where("rn = 1").
		Find(&models).Error
	return models, err
}

// FindEarliestCompleted returns the completed booking of bookerID on itemID
// with the earliest end, or nil.
func (r *GormBookingRepository) FindEarliestCompleted(ctx context.Context, bookerID, itemID int64, now time.Time) (*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := database.Conn(ctx, r.db).
		Model(&BookingModel{}).
		Where("booker_id = ? AND item_id = ?", bookerID, itemID).
		Where("status IN ?", bookingDomain.StatusStrings(bookingDomain.CompletedStatuses...)).
		Where("end_date < ?", now.UTC()).
		Order("end_date ASC, id ASC").
		Limit(1).
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find completed booking: %w", err)
	}
	if len(models) == 0 {
		return nil, nil
	}
	return toDomainBooking(&models[0])
}

// CountByStatus returns booking counts grouped by status (admin).
func (r *GormBookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := database.Conn(ctx, r.db).Model(&BookingModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}

// --- Conversion Helpers ---

func toBookingModel(bk *bookingDomain.Booking) *BookingModel {
	return &BookingModel{
		ID:        bk.ID(),
		StartDate: bk.Start().UTC(),
		EndDate:   bk.End().UTC(),
		ItemID:    bk.ItemID(),
		BookerID:  bk.BookerID(),
		Status:    string(bk.Status()),
		Version:   bk.Version(),
		CreatedAt: bk.CreatedAt().UTC(),
		UpdatedAt: bk.UpdatedAt().UTC(),
	}
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	status, err := bookingDomain.ParseBookingStatus(m.Status)
	if err != nil {
		return nil, fmt.Errorf("booking %d: %w", m.ID, err)
	}
	return bookingDomain.ReconstructBooking(
		m.ID,
		m.ItemID,
		m.BookerID,
		m.StartDate.UTC(),
		m.EndDate.UTC(),
		status,
		m.Version,
		m.CreatedAt.UTC(),
		m.UpdatedAt.UTC(),
	), nil
}

func toDomainBookings(models []BookingModel) ([]*bookingDomain.Booking, error) {
	bookings := make([]*bookingDomain.Booking, len(models))
	for i := range models {
		bk, err := toDomainBooking(&models[i])
		if err != nil {
			return nil, err
		}
		bookings[i] = bk
	}
	return bookings, nil
}
