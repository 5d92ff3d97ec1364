package entity

import "time"

type CompanyContext struct {
	Id          int
	Name        string
	ContextText string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
