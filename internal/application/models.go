package application

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Stage is the hiring-pipeline position of an application. Stages carry no
// transition order; any stage may be set directly to any other.
type Stage string

const (
	StageApplied            Stage = "applied"
	StagePhoneScreen        Stage = "phone_screen"
	StageTechnicalInterview Stage = "technical_interview"
	StageOnsiteInterview    Stage = "onsite_interview"
	StageOffer              Stage = "offer"
	StageRejected           Stage = "rejected"
	StageWithdrawn          Stage = "withdrawn"
)

func (s Stage) Valid() bool {
	switch s {
	case StageApplied, StagePhoneScreen, StageTechnicalInterview,
		StageOnsiteInterview, StageOffer, StageRejected, StageWithdrawn:
		return true
	}
	return false
}

// Status is the lifecycle flag, independent of Stage.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusArchived Status = "archived"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusArchived:
		return true
	}
	return false
}

// InterviewNote is one entry of an application's interview-prep list.
// Notes are append-only; there is no edit or delete operation.
type InterviewNote struct {
	ID        string    `bson:"id" json:"id"`
	Title     string    `bson:"title" json:"title"`
	Content   string    `bson:"content" json:"content"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// JobApplication is the domain shape (camelCase JSON). The persisted row
// shape lives in row.go.
type JobApplication struct {
	ID            string          `json:"id"`
	Company       string          `json:"company"`
	Position      string          `json:"position"`
	AppliedDate   string          `json:"appliedDate"` // yyyy-mm-dd
	Stage         Stage           `json:"stage"`
	Status        Status          `json:"status"`
	Salary        string          `json:"salary,omitempty"`
	Location      string          `json:"location,omitempty"`
	JobURL        string          `json:"jobUrl,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	InterviewPrep []InterviewNote `json:"interviewPrep"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// FormData is the create input. Absent optional fields map to explicit
// defaults on create, never left unset.
type FormData struct {
	Company     string `json:"company"`
	Position    string `json:"position"`
	AppliedDate string `json:"appliedDate"`
	Stage       Stage  `json:"stage"`
	Status      Status `json:"status"`
	Salary      string `json:"salary"`
	Location    string `json:"location"`
	JobURL      string `json:"jobUrl"`
	Notes       string `json:"notes"`
}

const dateLayout = "2006-01-02"

// ErrValidation marks rejected input; the wrapped message names the field.
var ErrValidation = errors.New("validation failed")

// Validate checks required fields and normalizes defaults in place.
func (f *FormData) Validate() error {
	f.Company = strings.TrimSpace(f.Company)
	f.Position = strings.TrimSpace(f.Position)
	f.AppliedDate = strings.TrimSpace(f.AppliedDate)
	if f.Company == "" {
		return fmt.Errorf("%w: company is required", ErrValidation)
	}
	if f.Position == "" {
		return fmt.Errorf("%w: position is required", ErrValidation)
	}
	if f.AppliedDate == "" {
		return fmt.Errorf("%w: appliedDate is required", ErrValidation)
	}
	if _, err := time.Parse(dateLayout, f.AppliedDate); err != nil {
		return fmt.Errorf("%w: appliedDate must be yyyy-mm-dd", ErrValidation)
	}
	if f.Stage == "" {
		f.Stage = StageApplied
	} else if !f.Stage.Valid() {
		return fmt.Errorf("%w: unknown stage %q", ErrValidation, f.Stage)
	}
	if f.Status == "" {
		f.Status = StatusActive
	} else if !f.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, f.Status)
	}
	return nil
}

// Patch is an explicit field mask for partial updates: only non-nil fields
// are applied. This replaces the blind object-spread merge of loosely typed
// clients with a per-field merge that can be tested field by field.
type Patch struct {
	Company     *string `json:"company"`
	Position    *string `json:"position"`
	AppliedDate *string `json:"appliedDate"`
	Stage       *Stage  `json:"stage"`
	Status      *Status `json:"status"`
	Salary      *string `json:"salary"`
	Location    *string `json:"location"`
	JobURL      *string `json:"jobUrl"`
	Notes       *string `json:"notes"`
}

// IsZero reports whether the patch supplies no fields.
func (p Patch) IsZero() bool {
	return p.Company == nil && p.Position == nil && p.AppliedDate == nil &&
		p.Stage == nil && p.Status == nil && p.Salary == nil &&
		p.Location == nil && p.JobURL == nil && p.Notes == nil
}

// Validate rejects supplied-but-invalid fields. Required fields may not be
// patched to empty.
func (p Patch) Validate() error {
	if p.Company != nil && strings.TrimSpace(*p.Company) == "" {
		return fmt.Errorf("%w: company cannot be empty", ErrValidation)
	}
	if p.Position != nil && strings.TrimSpace(*p.Position) == "" {
		return fmt.Errorf("%w: position cannot be empty", ErrValidation)
	}
	if p.AppliedDate != nil {
		if _, err := time.Parse(dateLayout, *p.AppliedDate); err != nil {
			return fmt.Errorf("%w: appliedDate must be yyyy-mm-dd", ErrValidation)
		}
	}
	if p.Stage != nil && !p.Stage.Valid() {
		return fmt.Errorf("%w: unknown stage %q", ErrValidation, *p.Stage)
	}
	if p.Status != nil && !p.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, *p.Status)
	}
	return nil
}
