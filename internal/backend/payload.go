package backend

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/example/studio-scheduler/internal/dates"
	"github.com/example/studio-scheduler/internal/studio"
)

// flexibleID accepts session identifiers encoded either as JSON strings or numbers.
type flexibleID string

func (id *flexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = flexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	if _, err := strconv.ParseInt(n.String(), 10, 64); err != nil {
		return fmt.Errorf("id must be an integer: %w", err)
	}
	*id = flexibleID(n.String())
	return nil
}

type sessionPayload struct {
	ID             flexibleID `json:"id" validate:"required"`
	Date           string     `json:"date" validate:"required,localdate"`
	StartTime      time.Time  `json:"start_time" validate:"required"`
	EndTime        time.Time  `json:"end_time" validate:"required,gtfield=StartTime"`
	MaxCapacity    int        `json:"max_capacity" validate:"gt=0"`
	BookedCount    int        `json:"booked_count" validate:"gte=0"`
	InstructorName string     `json:"instructor_name" validate:"required"`
	ClassName      string     `json:"class_name" validate:"required"`
	Level          string     `json:"level" validate:"required"`
	Style          string     `json:"style" validate:"required"`
	DropInPrice    int64      `json:"drop_in_price" validate:"gte=0"`
}

type listSessionsPayload struct {
	Sessions []sessionPayload `json:"sessions"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("localdate", func(fl validator.FieldLevel) bool {
		return dates.IsLocalDate(fl.Field().String())
	})
	return v
}

// decodeSessions parses and validates a list response, converting every
// session into loc. One invalid item rejects the whole payload.
func decodeSessions(body []byte, v *validator.Validate, loc *time.Location) ([]studio.ClassSession, error) {
	var payload listSessionsPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &PayloadError{Index: -1, Err: err}
	}
	if payload.Sessions == nil {
		return nil, &PayloadError{Index: -1, Err: errors.New("sessions field is required")}
	}

	out := make([]studio.ClassSession, 0, len(payload.Sessions))
	for i, item := range payload.Sessions {
		if err := v.Struct(item); err != nil {
			return nil, &PayloadError{Index: i, Err: describeValidation(err)}
		}
		out = append(out, item.toSession(loc))
	}
	return out, nil
}

func (p sessionPayload) toSession(loc *time.Location) studio.ClassSession {
	return studio.ClassSession{
		ID:             string(p.ID),
		Date:           p.Date,
		StartTime:      p.StartTime.In(loc),
		EndTime:        p.EndTime.In(loc),
		MaxCapacity:    p.MaxCapacity,
		BookedCount:    p.BookedCount,
		InstructorName: p.InstructorName,
		ClassName:      p.ClassName,
		Level:          p.Level,
		Style:          p.Style,
		DropInPrice:    p.DropInPrice,
	}
}

func describeValidation(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	first := fieldErrs[0]
	return fmt.Errorf("field %s failed %q", first.Field(), first.Tag())
}
