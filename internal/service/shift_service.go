package service

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-bizman-ws/internal/model"
	"go-bizman-ws/internal/repository"
	"go-bizman-ws/internal/tenant"
	"go-bizman-ws/internal/ws"
)

var hcmLoc *time.Location

func init() {
	var err error
	hcmLoc, err = time.LoadLocation("Asia/Ho_Chi_Minh")
	if err != nil {
		hcmLoc = time.FixedZone("ICT", 7*60*60)
	}
}

var (
	ErrShiftNotFound      = errors.New("shift not found")
	ErrInvalidTimeFormat  = errors.New("invalid time format, use HH:MM (e.g., 08:30, 17:59)")
	ErrInvalidDateFormat  = errors.New("invalid date format, use YYYY-MM-DD")
	ErrEndDateBeforeStart = errors.New("end date cannot be before start date")
	ErrStartDateInPast    = errors.New("start date cannot be in the past")
	ErrUserNotActive      = errors.New("cannot assign shift to inactive user")
	ErrShiftConflict      = errors.New("shift conflicts with existing schedule")
	ErrSameTimeStartEnd   = errors.New("start time and end time cannot be the same")
	ErrShiftForbidden     = errors.New("you can only view your own shifts")
)

type ShiftService interface {
	CreateShift(tc tenant.Context, req *CreateShiftRequest) (*model.Shift, error)
	UpdateShift(tc tenant.Context, shiftID uuid.UUID, req *UpdateShiftRequest) (*model.Shift, error)
	DeleteShift(tc tenant.Context, shiftID uuid.UUID) error
	GetShiftByID(tc tenant.Context, id uuid.UUID, isMasterAdmin bool) (*model.ShiftResponse, error)
	GetShifts(tc tenant.Context, isMasterAdmin bool, viewType string, referenceDate time.Time) ([]model.ShiftResponse, error)
	GetShiftsByUser(tc tenant.Context, userID uuid.UUID, isMasterAdmin bool) ([]model.ShiftResponse, error)
}

type CreateShiftRequest struct {
	UserID    string `json:"user_id" validate:"required"`
	StartTime string `json:"start_time" validate:"required"` // HH:MM
	EndTime   string `json:"end_time" validate:"required"`   // HH:MM
	StartDate string `json:"start_date" validate:"required"` // YYYY-MM-DD
	EndDate   string `json:"end_date" validate:"required"`   // YYYY-MM-DD
	Note      string `json:"note"`
}

type UpdateShiftRequest struct {
	UserID    *string `json:"user_id"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
	Note      *string `json:"note"`
}

type shiftService struct {
	shiftRepo repository.ShiftRepository
	userRepo  repository.UserRepository
	wsHub     *ws.Hub
}

func NewShiftService(shiftRepo repository.ShiftRepository, userRepo repository.UserRepository, hub *ws.Hub) ShiftService {
	return &shiftService{
		shiftRepo: shiftRepo,
		userRepo:  userRepo,
		wsHub:     hub,
	}
}

var timePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):([0-5][0-9])$`)

func validateTimeFormat(timeStr string) error {
	if !timePattern.MatchString(timeStr) {
		return ErrInvalidTimeFormat
	}
	return nil
}

func validateDateFormat(dateStr string) (time.Time, error) {
	parsed, err := time.ParseInLocation("2006-01-02", dateStr, hcmLoc)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return parsed, nil
}

// isOvernight reports whether the shift crosses midnight.
func isOvernight(startTime, endTime string) bool {
	return shiftMinutes(endTime) <= shiftMinutes(startTime)
}

func shiftMinutes(timeStr string) int {
	parts := strings.Split(timeStr, ":")
	if len(parts) != 2 {
		return 0
	}
	hours, _ := strconv.Atoi(parts[0])
	minutes, _ := strconv.Atoi(parts[1])
	return hours*60 + minutes
}

func (s *shiftService) CreateShift(tc tenant.Context, req *CreateShiftRequest) (*model.Shift, error) {
	if err := validateTimeFormat(req.StartTime); err != nil {
		return nil, err
	}
	if err := validateTimeFormat(req.EndTime); err != nil {
		return nil, err
	}
	if req.StartTime == req.EndTime {
		return nil, ErrSameTimeStartEnd
	}

	startDate, err := validateDateFormat(req.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := validateDateFormat(req.EndDate)
	if err != nil {
		return nil, err
	}
	if endDate.Before(startDate) {
		return nil, ErrEndDateBeforeStart
	}

	today := time.Now().In(hcmLoc).Truncate(24 * time.Hour)
	if startDate.Before(today) {
		return nil, ErrStartDateInPast
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, errors.New("invalid user ID format")
	}
	user, err := s.userRepo.FindByID(userID)
	if err != nil || user.OwnerID != tc.OwnerID {
		return nil, ErrUserNotFound
	}
	if !user.IsActive {
		return nil, ErrUserNotActive
	}

	overnight := isOvernight(req.StartTime, req.EndTime)

	overlapping, err := s.shiftRepo.FindOverlappingShifts(tc,
		userID, startDate, endDate,
		req.StartTime, req.EndTime, overnight, nil,
	)
	if err != nil {
		return nil, errors.New("failed to check for shift conflicts")
	}
	if len(overlapping) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrShiftConflict, formatConflictDetails(overlapping))
	}

	shift := &model.Shift{
		UserID:      userID,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		StartDate:   startDate,
		EndDate:     endDate,
		IsOvernight: overnight,
		Note:        req.Note,
		TotalDays:   int(endDate.Sub(startDate).Hours()/24) + 1,
	}
	if err := s.shiftRepo.Create(tc, shift); err != nil {
		return nil, err
	}

	shift, err = s.shiftRepo.FindByID(tc, shift.ID)
	if err != nil {
		return nil, err
	}

	s.notifyShift(tc, "shift_created", shift)
	return shift, nil
}

func (s *shiftService) UpdateShift(tc tenant.Context, shiftID uuid.UUID, req *UpdateShiftRequest) (*model.Shift, error) {
	shift, err := s.shiftRepo.FindByID(tc, shiftID)
	if err != nil {
		return nil, ErrShiftNotFound
	}

	startTime := shift.StartTime
	endTime := shift.EndTime
	startDate := shift.StartDate
	endDate := shift.EndDate
	userID := shift.UserID
	note := shift.Note

	if req.StartTime != nil {
		if err := validateTimeFormat(*req.StartTime); err != nil {
			return nil, err
		}
		startTime = *req.StartTime
	}
	if req.EndTime != nil {
		if err := validateTimeFormat(*req.EndTime); err != nil {
			return nil, err
		}
		endTime = *req.EndTime
	}
	if startTime == endTime {
		return nil, ErrSameTimeStartEnd
	}

	if req.StartDate != nil {
		parsed, err := validateDateFormat(*req.StartDate)
		if err != nil {
			return nil, err
		}
		startDate = parsed
	}
	if req.EndDate != nil {
		parsed, err := validateDateFormat(*req.EndDate)
		if err != nil {
			return nil, err
		}
		endDate = parsed
	}
	if endDate.Before(startDate) {
		return nil, ErrEndDateBeforeStart
	}
	if req.StartDate != nil {
		today := time.Now().In(hcmLoc).Truncate(24 * time.Hour)
		if startDate.Before(today) {
			return nil, ErrStartDateInPast
		}
	}

	if req.UserID != nil {
		parsed, err := uuid.Parse(*req.UserID)
		if err != nil {
			return nil, errors.New("invalid user ID format")
		}
		newUser, err := s.userRepo.FindByID(parsed)
		if err != nil || newUser.OwnerID != tc.OwnerID {
			return nil, ErrUserNotFound
		}
		if !newUser.IsActive {
			return nil, ErrUserNotActive
		}
		userID = parsed
	}

	if req.Note != nil {
		note = *req.Note
	}

	overnight := isOvernight(startTime, endTime)

	overlapping, err := s.shiftRepo.FindOverlappingShifts(tc,
		userID, startDate, endDate,
		startTime, endTime, overnight, &shiftID,
	)
	if err != nil {
		return nil, errors.New("failed to check for shift conflicts")
	}
	if len(overlapping) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrShiftConflict, formatConflictDetails(overlapping))
	}

	shift.UserID = userID
	shift.StartTime = startTime
	shift.EndTime = endTime
	shift.StartDate = startDate
	shift.EndDate = endDate
	shift.IsOvernight = overnight
	shift.Note = note
	shift.TotalDays = int(endDate.Sub(startDate).Hours()/24) + 1

	if err := s.shiftRepo.Update(tc, shift); err != nil {
		return nil, err
	}

	shift, err = s.shiftRepo.FindByID(tc, shift.ID)
	if err != nil {
		return nil, err
	}

	s.notifyShift(tc, "shift_updated", shift)
	return shift, nil
}

func (s *shiftService) DeleteShift(tc tenant.Context, shiftID uuid.UUID) error {
	shift, err := s.shiftRepo.FindByID(tc, shiftID)
	if err != nil {
		return ErrShiftNotFound
	}
	if err := s.shiftRepo.Delete(tc, shiftID, tc.Actor()); err != nil {
		return err
	}
	s.notifyShift(tc, "shift_cancelled", shift)
	return nil
}

func (s *shiftService) GetShiftByID(tc tenant.Context, id uuid.UUID, isMasterAdmin bool) (*model.ShiftResponse, error) {
	shift, err := s.shiftRepo.FindByID(tc, id)
	if err != nil {
		return nil, ErrShiftNotFound
	}

	// Staff can only view their own schedule.
	if !isMasterAdmin && shift.UserID.String() != tc.UserID {
		return nil, ErrShiftForbidden
	}

	response := shift.ToResponse()
	return &response, nil
}

func (s *shiftService) GetShifts(tc tenant.Context, isMasterAdmin bool, viewType string, referenceDate time.Time) ([]model.ShiftResponse, error) {
	var shifts []model.Shift
	var err error

	startDate, endDate := calculateDateRange(viewType, referenceDate)

	if isMasterAdmin {
		if viewType == string(model.ViewTypeAll) {
			shifts, err = s.shiftRepo.FindAll(tc)
		} else {
			shifts, err = s.shiftRepo.FindByDateRange(tc, startDate, endDate)
		}
	} else {
		userID, parseErr := uuid.Parse(tc.UserID)
		if parseErr != nil {
			return nil, errors.New("invalid requester ID")
		}
		all, ferr := s.shiftRepo.FindByUserID(tc, userID)
		if ferr != nil {
			return nil, ferr
		}
		if viewType == string(model.ViewTypeAll) {
			shifts = all
		} else {
			for _, sh := range all {
				if !sh.EndDate.Before(startDate) && !sh.StartDate.After(endDate) {
					shifts = append(shifts, sh)
				}
			}
		}
	}
	if err != nil {
		return nil, err
	}

	responses := make([]model.ShiftResponse, len(shifts))
	for i, shift := range shifts {
		responses[i] = shift.ToResponse()
	}
	return responses, nil
}

func (s *shiftService) GetShiftsByUser(tc tenant.Context, userID uuid.UUID, isMasterAdmin bool) ([]model.ShiftResponse, error) {
	if !isMasterAdmin && userID.String() != tc.UserID {
		return nil, ErrShiftForbidden
	}

	shifts, err := s.shiftRepo.FindByUserID(tc, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]model.ShiftResponse, len(shifts))
	for i, shift := range shifts {
		responses[i] = shift.ToResponse()
	}
	return responses, nil
}

func calculateDateRange(viewType string, referenceDate time.Time) (time.Time, time.Time) {
	ref := referenceDate.In(hcmLoc)

	switch model.ViewType(viewType) {
	case model.ViewTypeDaily:
		start := ref.Truncate(24 * time.Hour)
		end := start.Add(24*time.Hour - time.Second)
		return start, end

	case model.ViewTypeWeekly:
		weekday := int(ref.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		start := ref.Truncate(24*time.Hour).AddDate(0, 0, -(weekday - 1))
		end := start.AddDate(0, 0, 7).Add(-time.Second)
		return start, end

	case model.ViewTypeMonthly:
		start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, hcmLoc)
		end := start.AddDate(0, 1, 0).Add(-time.Second)
		return start, end

	default:
		start := time.Date(2000, 1, 1, 0, 0, 0, 0, hcmLoc)
		end := time.Date(2100, 12, 31, 23, 59, 59, 0, hcmLoc)
		return start, end
	}
}

func formatConflictDetails(shifts []model.Shift) string {
	details := make([]string, len(shifts))
	for i, shift := range shifts {
		details[i] = fmt.Sprintf("[%s - %s, %s to %s]",
			shift.StartTime, shift.EndTime,
			shift.StartDate.Format("2006-01-02"),
			shift.EndDate.Format("2006-01-02"))
	}
	return strings.Join(details, ", ")
}

func (s *shiftService) notifyShift(tc tenant.Context, action string, shift *model.Shift) {
	s.wsHub.Publish(tc.OwnerID, map[string]interface{}{
		"type":    "shift_notification",
		"action":  action,
		"user_id": shift.UserID.String(),
		"shift":   shift.ToResponse(),
	})
}
