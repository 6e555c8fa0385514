package models

import "time"

// JobRun is the run-lock row for a batch job. The unique (job_name, period)
// index makes acquisition a plain insert race; a row with a nil FinishedAt
// younger than the lock TTL means the job is still running.
type JobRun struct {
	ID         string     `gorm:"column:id;type:uuid;primary_key" json:"id"`
	JobName    string     `gorm:"column:job_name;type:varchar(64);not null;uniqueIndex:idx_job_period,priority:1" json:"job_name"`
	Period     string     `gorm:"column:period;type:varchar(32);not null;uniqueIndex:idx_job_period,priority:2" json:"period"`
	Token      string     `gorm:"column:token;type:uuid;not null" json:"token"`
	StartedAt  time.Time  `gorm:"column:started_at;not null" json:"started_at"`
	FinishedAt *time.Time `gorm:"column:finished_at;default:null" json:"finished_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (JobRun) TableName() string {
	return "job_run"
}
