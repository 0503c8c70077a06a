package model

import "time"

type SlotStatus string

const (
	SlotStatusAvailable SlotStatus = "available" // Свободен для записи
	SlotStatusPending   SlotStatus = "pending"   // Есть запрос, ждёт решения тьютора
	SlotStatusBooked    SlotStatus = "booked"    // Занятие подтверждено
)

// SlotDuration фиксированная длительность слота
const SlotDuration = time.Hour

func (s SlotStatus) Valid() bool {
	switch s {
	case SlotStatusAvailable, SlotStatusPending, SlotStatusBooked:
		return true
	}
	return false
}

// Slot часовой блок доступности тьютора на конкретную дату
type Slot struct {
	ID        int64      `json:"availability_id"`
	TutorID   int64      `json:"tutor_id"`
	Date      Date       `json:"available_date"`
	StartTime ClockTime  `json:"start_time"`
	EndTime   ClockTime  `json:"end_time"`
	Status    SlotStatus `json:"status"`
}

// Contains проверяет что t попадает в [StartTime, EndTime] включительно.
// Слоты, переходящие через полночь, не содержат ни одного времени.
func (s *Slot) Contains(t ClockTime) bool {
	return s.StartTime <= t && t <= s.EndTime
}
