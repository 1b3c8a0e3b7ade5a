package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-bizman-ws/internal/model"
	"go-bizman-ws/internal/tenant"
)

type ShiftRepository interface {
	Create(tc tenant.Context, shift *model.Shift) error
	Update(tc tenant.Context, shift *model.Shift) error
	Delete(tc tenant.Context, id uuid.UUID, deletedBy string) error
	FindByID(tc tenant.Context, id uuid.UUID) (*model.Shift, error)
	FindByUserID(tc tenant.Context, userID uuid.UUID) ([]model.Shift, error)
	FindAll(tc tenant.Context) ([]model.Shift, error)

	// FindOverlappingShifts returns shifts that would conflict with the
	// given time/date range for a user; overnight shifts are handled.
	FindOverlappingShifts(tc tenant.Context, userID uuid.UUID, startDate, endDate time.Time,
		startTime, endTime string, isOvernight bool, excludeID *uuid.UUID) ([]model.Shift, error)

	FindByDateRange(tc tenant.Context, startDate, endDate time.Time) ([]model.Shift, error)
}

type shiftRepo struct {
	db *gorm.DB
}

func NewShiftRepo(db *gorm.DB) ShiftRepository {
	return &shiftRepo{db}
}

func (r *shiftRepo) Create(tc tenant.Context, shift *model.Shift) error {
	shift.OwnerID = tc.OwnerID
	shift.CreatedBy = tc.UserID
	shift.UpdatedBy = tc.UserID
	return r.db.Create(shift).Error
}

func (r *shiftRepo) Update(tc tenant.Context, shift *model.Shift) error {
	shift.UpdatedBy = tc.UserID
	return r.db.Where("owner_id = ?", tc.OwnerID).Save(shift).Error
}

func (r *shiftRepo) Delete(tc tenant.Context, id uuid.UUID, deletedBy string) error {
	return r.db.Model(&model.Shift{}).
		Where("id = ? AND owner_id = ?", id, tc.OwnerID).
		Updates(map[string]interface{}{
			"deleted_at": gorm.Expr("NOW()"),
			"deleted_by": deletedBy,
		}).Error
}

func (r *shiftRepo) FindByID(tc tenant.Context, id uuid.UUID) (*model.Shift, error) {
	var shift model.Shift
	err := r.db.Preload("User").Preload("User.Role").
		First(&shift, "id = ? AND owner_id = ?", id, tc.OwnerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &shift, nil
}

func (r *shiftRepo) FindByUserID(tc tenant.Context, userID uuid.UUID) ([]model.Shift, error) {
	var shifts []model.Shift
	err := r.db.Preload("User").Preload("User.Role").
		Where("user_id = ? AND owner_id = ?", userID, tc.OwnerID).
		Order("start_date ASC, start_time ASC").
		Find(&shifts).Error
	return shifts, err
}

func (r *shiftRepo) FindAll(tc tenant.Context) ([]model.Shift, error) {
	var shifts []model.Shift
	err := r.db.Preload("User").Preload("User.Role").
		Where("owner_id = ?", tc.OwnerID).
		Order("start_date ASC, start_time ASC").
		Find(&shifts).Error
	return shifts, err
}

// FindByDateRange returns shifts whose date span intersects [startDate,
// endDate], for range views (day, week, month).
func (r *shiftRepo) FindByDateRange(tc tenant.Context, startDate, endDate time.Time) ([]model.Shift, error) {
	var shifts []model.Shift
	err := r.db.Preload("User").Preload("User.Role").
		Where("owner_id = ? AND start_date <= ? AND end_date >= ?", tc.OwnerID, endDate, startDate).
		Order("start_date ASC, start_time ASC").
		Find(&shifts).Error
	return shifts, err
}

func (r *shiftRepo) FindOverlappingShifts(tc tenant.Context, userID uuid.UUID, startDate, endDate time.Time,
	startTime, endTime string, isOvernight bool, excludeID *uuid.UUID) ([]model.Shift, error) {

	var shifts []model.Shift
	query := r.db.Where("user_id = ? AND owner_id = ?", userID, tc.OwnerID).
		Where("start_date <= ? AND end_date >= ?", endDate, startDate) // date ranges overlap
	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}
	if err := query.Preload("User").Find(&shifts).Error; err != nil {
		return nil, err
	}

	// Time overlap is filtered in Go: overnight shifts wrap midnight, which
	// SQL between-checks get wrong.
	var overlapping []model.Shift
	for _, existing := range shifts {
		if timeRangesOverlap(startTime, endTime, isOvernight,
			existing.StartTime, existing.EndTime, existing.IsOvernight) {
			overlapping = append(overlapping, existing)
		}
	}
	return overlapping, nil
}

// timeRangesOverlap checks if two HH:MM ranges overlap, treating overnight
// shifts as extending past midnight.
func timeRangesOverlap(start1, end1 string, overnight1 bool, start2, end2 string, overnight2 bool) bool {
	s1, e1 := timeToMinutes(start1), timeToMinutes(end1)
	s2, e2 := timeToMinutes(start2), timeToMinutes(end2)

	if overnight1 {
		e1 += 1440
	}
	if overnight2 {
		e2 += 1440
	}

	if overnight1 || overnight2 {
		if !(e1 <= s2 || e2 <= s1) {
			return true
		}
		// An overnight shift occupies two segments of the clock; check the
		// wrapped part against the other shift's plain range.
		if overnight1 && !overnight2 && s2 < e1-1440 {
			return true
		}
		if overnight2 && !overnight1 && s1 < e2-1440 {
			return true
		}
		return false
	}

	return !(e1 <= s2 || e2 <= s1)
}

// timeToMinutes converts HH:MM string to minutes since midnight
func timeToMinutes(timeStr string) int {
	var hours, minutes int
	if len(timeStr) >= 5 {
		hours = int(timeStr[0]-'0')*10 + int(timeStr[1]-'0')
		minutes = int(timeStr[3]-'0')*10 + int(timeStr[4]-'0')
	}
	return hours*60 + minutes
}
