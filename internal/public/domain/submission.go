package domain

import (
	"fmt"
	"strings"
	"time"
)

// SubmissionKind discriminates the two public form variants sharing one
// storage shape.
type SubmissionKind string

const (
	KindContact SubmissionKind = "contact"
	KindLead    SubmissionKind = "lead"
)

// Unspecified is the sentinel stored for optional fields the visitor left
// blank, so sinks and the admin UI render a consistent label.
const Unspecified = "未填寫"

// IndustryOther is the select value that unlocks the free-text industry field.
const IndustryOther = "其他"

// Submission is one durably stored contact or lead record. Immutable once
// appended; CreatedAt is assigned by the repository at write time.
type Submission struct {
	ID            string
	Kind          SubmissionKind
	Name          string
	Email         string
	Phone         string
	Company       string
	Message       string
	Industry      string
	IndustryOther string
	Budget        string
	CreatedAt     time.Time
}

// IndustryDisplay combines industry and the free-text supplement the way the
// notification sinks and spreadsheet columns expect, e.g. "其他 (出版業)".
func (s Submission) IndustryDisplay() string {
	other := strings.TrimSpace(s.IndustryOther)
	if other == "" || other == Unspecified {
		return s.Industry
	}
	return fmt.Sprintf("%s (%s)", s.Industry, other)
}
