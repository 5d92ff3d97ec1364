package entity

import "time"

type Thread struct {
	Id               int
	Subject          string
	CompanyContextId *int
	ExtraDirectives  []string // nil when no directives are attached
	CustomPrompt     *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// HasDirectives reports whether the thread carries at least one directive.
func (t *Thread) HasDirectives() bool {
	return len(t.ExtraDirectives) > 0
}

func (t *Thread) HasCustomPrompt() bool {
	return t.CustomPrompt != nil
}
