package scheduling

import (
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/bookora/bookora/metrics"
	"github.com/bookora/bookora/models"
	"github.com/bookora/bookora/utils"
)

// LeadTimeMinutes is the booking lead-time buffer: today's candidates
// starting within this many minutes of now are not offered.
const LeadTimeMinutes = 5

// RoomInfo annotates a slot with a room that is still free in that
// interval. Informational only; rooms never remove a slot.
type RoomInfo struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// Slot is a candidate bookable interval of exactly the service duration,
// aligned to the business step grid.
type Slot struct {
	StartsAt       time.Time
	EndsAt         time.Time
	AvailableRooms []RoomInfo
}

func (s Slot) MarshalJSON() ([]byte, error) {
	type wire struct {
		StartsAt       string     `json:"starts_at"`
		EndsAt         string     `json:"ends_at"`
		AvailableRooms []RoomInfo `json:"available_rooms,omitempty"`
	}
	return json.Marshal(wire{
		StartsAt:       utils.FormatStored(s.StartsAt),
		EndsAt:         utils.FormatStored(s.EndsAt),
		AvailableRooms: s.AvailableRooms,
	})
}

// Engine computes bookable slots. Slot computation is a pure read and
// safe under arbitrary concurrency; the write path goes through the
// conflict guard instead.
type Engine struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewEngine(dbx *gorm.DB) *Engine {
	return &Engine{DB: dbx, Now: time.Now}
}

// SlotsForDay returns the open slots for (staff, service, date), ordered
// by start time. Unknown or foreign service/staff and inactive staff
// yield an empty result, not an error: the read path treats "no slots"
// and "invalid input" identically.
func (e *Engine) SlotsForDay(businessID, staffID, serviceID uint, date string) ([]Slot, error) {
	metrics.SlotQueries.Inc()

	var business models.Business
	if err := e.DB.First(&business, businessID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	loc := business.Location()

	day, err := utils.ParseDate(date, loc)
	if err != nil {
		return nil, nil
	}

	var service models.Service
	if err := e.DB.Where("business_id = ?", businessID).First(&service, serviceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !service.HasValidDuration() {
		return nil, nil
	}
	duration := time.Duration(service.DurationMinutes) * time.Minute

	var staff models.User
	if err := e.DB.First(&staff, staffID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if staff.BusinessID != businessID || !staff.IsSchedulable() {
		return nil, nil
	}

	window, err := EffectiveWindow(e.DB, &business, staffID, day)
	if err != nil {
		if _, ok := AsError(err); ok {
			return nil, nil
		}
		return nil, err
	}
	if window.Closed {
		return nil, nil
	}

	step := time.Duration(business.SlotStep()) * time.Minute
	lastStart := window.End.Add(-duration)
	if lastStart.Before(window.Start) {
		return nil, nil
	}

	now := e.Now().In(loc).Truncate(time.Minute)
	isToday := day.Format(utils.DateFormat) == now.Format(utils.DateFormat)
	if window.End.Before(now) {
		return nil, nil
	}

	busy, err := e.busyBookings(businessID, staffID, window.Start, window.End)
	if err != nil {
		return nil, err
	}

	blocks, err := BlocksOverlapping(e.DB, businessID, staffID, window.Start, window.End)
	if err != nil {
		return nil, err
	}

	var rooms []models.Room
	if business.IsClinic() {
		if err := e.DB.Where("business_id = ? AND is_active = ?", businessID, true).
			Order("id").Find(&rooms).Error; err != nil {
			return nil, err
		}
	}

	var slots []Slot
	for t := window.Start; !t.After(lastStart); t = t.Add(step) {
		start, end := t, t.Add(duration)

		if isToday && !start.After(now.Add(LeadTimeMinutes*time.Minute)) {
			continue
		}
		if window.HasBreak() && utils.Overlaps(start, end, *window.BreakStart, *window.BreakEnd) {
			continue
		}
		if overlapsBooking(busy, start, end) {
			continue
		}
		if overlapsBlock(blocks, start, end) {
			continue
		}

		slot := Slot{StartsAt: start, EndsAt: end}
		if business.IsClinic() {
			slot.AvailableRooms = freeRooms(rooms, busy, start, end)
		}
		slots = append(slots, slot)
	}

	return slots, nil
}

// busyBookings loads every non-cancelled booking of the staff member
// intersecting [start,end).
func (e *Engine) busyBookings(businessID, staffID uint, start, end time.Time) ([]models.Booking, error) {
	var busy []models.Booking
	err := e.DB.
		Where("business_id = ? AND staff_id = ?", businessID, staffID).
		Where("status <> ?", models.StatusCancelled).
		Where("starts_at < ? AND ends_at > ?", end, start).
		Find(&busy).Error
	if err != nil {
		return nil, err
	}
	return busy, nil
}

func overlapsBooking(busy []models.Booking, start, end time.Time) bool {
	for _, b := range busy {
		if utils.Overlaps(start, end, b.StartsAt, b.EndsAt) {
			return true
		}
	}
	return false
}

func overlapsBlock(blocks []models.BookingBlock, start, end time.Time) bool {
	for _, b := range blocks {
		if utils.Overlaps(start, end, b.StartsAt, b.EndsAt) {
			return true
		}
	}
	return false
}

// freeRooms returns the rooms not occupied by a room-assigned booking in
// [start,end).
func freeRooms(rooms []models.Room, busy []models.Booking, start, end time.Time) []RoomInfo {
	taken := make(map[uint]bool)
	for _, b := range busy {
		if b.RoomID != nil && utils.Overlaps(start, end, b.StartsAt, b.EndsAt) {
			taken[*b.RoomID] = true
		}
	}

	free := make([]RoomInfo, 0, len(rooms))
	for _, r := range rooms {
		if !taken[r.ID] {
			free = append(free, RoomInfo{ID: r.ID, Name: r.Name, Type: r.Type})
		}
	}
	return free
}
