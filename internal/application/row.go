package application

import "time"

// applicationRow is the persisted shape: snake_case columns, interview_prep
// embedded as an array. This file is the sole boundary between the domain
// shape and the row shape; nothing outside the repositories touches rows.
type applicationRow struct {
	ID            string          `bson:"_id,omitempty"`
	UserID        string          `bson:"user_id"`
	Company       string          `bson:"company"`
	Position      string          `bson:"position"`
	AppliedDate   string          `bson:"applied_date"`
	Stage         string          `bson:"stage"`
	Status        string          `bson:"status"`
	Salary        string          `bson:"salary,omitempty"`
	Location      string          `bson:"location,omitempty"`
	JobURL        string          `bson:"job_url,omitempty"`
	Notes         string          `bson:"notes,omitempty"`
	InterviewPrep []InterviewNote `bson:"interview_prep"`
	CreatedAt     time.Time       `bson:"created_at"`
	UpdatedAt     time.Time       `bson:"updated_at"`
}

// toRow maps validated create input to a row owned by owner. Timestamps and
// id are assigned by the repository.
func toRow(owner string, f FormData) applicationRow {
	return applicationRow{
		UserID:        owner,
		Company:       f.Company,
		Position:      f.Position,
		AppliedDate:   f.AppliedDate,
		Stage:         string(f.Stage),
		Status:        string(f.Status),
		Salary:        f.Salary,
		Location:      f.Location,
		JobURL:        f.JobURL,
		Notes:         f.Notes,
		InterviewPrep: []InterviewNote{},
	}
}

// fromRow maps a row back to the domain shape. The owner column never
// leaves the adapter.
func fromRow(r applicationRow) JobApplication {
	notes := r.InterviewPrep
	if notes == nil {
		notes = []InterviewNote{}
	}
	return JobApplication{
		ID:            r.ID,
		Company:       r.Company,
		Position:      r.Position,
		AppliedDate:   r.AppliedDate,
		Stage:         Stage(r.Stage),
		Status:        Status(r.Status),
		Salary:        r.Salary,
		Location:      r.Location,
		JobURL:        r.JobURL,
		Notes:         r.Notes,
		InterviewPrep: notes,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// setFields expands a patch into the per-column assignments of an update.
// Each field is handled explicitly so merge behavior stays auditable.
func setFields(p Patch) map[string]interface{} {
	set := map[string]interface{}{}
	if p.Company != nil {
		set["company"] = *p.Company
	}
	if p.Position != nil {
		set["position"] = *p.Position
	}
	if p.AppliedDate != nil {
		set["applied_date"] = *p.AppliedDate
	}
	if p.Stage != nil {
		set["stage"] = string(*p.Stage)
	}
	if p.Status != nil {
		set["status"] = string(*p.Status)
	}
	if p.Salary != nil {
		set["salary"] = *p.Salary
	}
	if p.Location != nil {
		set["location"] = *p.Location
	}
	if p.JobURL != nil {
		set["job_url"] = *p.JobURL
	}
	if p.Notes != nil {
		set["notes"] = *p.Notes
	}
	return set
}
