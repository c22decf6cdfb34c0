package http

import (
	"time"

	"github.com/example/studio-scheduler/internal/application"
	"github.com/example/studio-scheduler/internal/availability"
	"github.com/example/studio-scheduler/internal/studio"
)

type sessionDTO struct {
	ID             string    `json:"id"`
	Date           string    `json:"date"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	MaxCapacity    int       `json:"max_capacity"`
	BookedCount    int       `json:"booked_count"`
	InstructorName string    `json:"instructor_name"`
	ClassName      string    `json:"class_name"`
	Level          string    `json:"level"`
	Style          string    `json:"style"`
	DropInPrice    int64     `json:"drop_in_price"`
}

func toSessionDTO(s studio.ClassSession) sessionDTO {
	return sessionDTO{
		ID:             s.ID,
		Date:           s.DateKey(),
		StartTime:      s.StartTime,
		EndTime:        s.EndTime,
		MaxCapacity:    s.MaxCapacity,
		BookedCount:    s.BookedCount,
		InstructorName: s.InstructorName,
		ClassName:      s.ClassName,
		Level:          s.Level,
		Style:          s.Style,
		DropInPrice:    s.DropInPrice,
	}
}

func toSessionDTOs(sessions []studio.ClassSession) []sessionDTO {
	out := make([]sessionDTO, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, toSessionDTO(s))
	}
	return out
}

type availabilityDTO struct {
	State          availability.State `json:"state"`
	SpotsAvailable int                `json:"spots_available"`
	Bookable       bool               `json:"bookable"`
}

func toAvailabilityDTO(result availability.Result) availabilityDTO {
	return availabilityDTO{
		State:          result.State,
		SpotsAvailable: result.SpotsAvailable,
		Bookable:       result.Bookable(),
	}
}

type sessionViewDTO struct {
	sessionDTO
	Availability availabilityDTO `json:"availability"`
}

func toSessionViews(views []application.SessionView) []sessionViewDTO {
	out := make([]sessionViewDTO, 0, len(views))
	for _, v := range views {
		out = append(out, sessionViewDTO{
			sessionDTO:   toSessionDTO(v.Session),
			Availability: toAvailabilityDTO(v.Availability),
		})
	}
	return out
}
