package application

import (
	"net/mail"
	"regexp"
	"strings"

	"github.com/pocketpro-tw/lead-services/api/internal/public/domain"
)

// phonePattern is the canonical phone rule shared by both forms: an optional
// leading +, then digits with common separators, 7 to 20 characters total.
var phonePattern = regexp.MustCompile(`^\+?[0-9(][0-9\-() ]{5,18}[0-9]$`)

type requiredField struct {
	name  string
	label string
	value func(SubmitInput) string
}

var requiredFields = []requiredField{
	{"name", "姓名", func(in SubmitInput) string { return in.Name }},
	{"email", "Email", func(in SubmitInput) string { return in.Email }},
	{"phone", "聯絡電話", func(in SubmitInput) string { return in.Phone }},
	{"company", "公司名稱", func(in SubmitInput) string { return in.Company }},
}

// ValidateSubmission normalises and validates one form payload. It is a pure
// function: the input is never mutated and no I/O happens here. On success it
// returns a Submission draft without ID/CreatedAt (the repository assigns
// those at append time).
func ValidateSubmission(in SubmitInput) (domain.Submission, error) {
	kind := in.Kind
	if kind != domain.KindLead {
		kind = domain.KindContact
	}

	for _, field := range requiredFields {
		if strings.TrimSpace(field.value(in)) == "" {
			return domain.Submission{}, newValidationError(field.name, field.label+" 為必填欄位")
		}
	}

	email := strings.TrimSpace(in.Email)
	if len(email) > 254 {
		return domain.Submission{}, newValidationError("email", "Email 長度不可超過 254 字元")
	}
	// Only the bare address@domain shape is stored: RFC 5322 display-name
	// forms and dotless domains parse fine but break the sinks downstream.
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return domain.Submission{}, newValidationError("email", "Email 格式不正確")
	}
	if at := strings.LastIndex(email, "@"); !strings.Contains(email[at+1:], ".") {
		return domain.Submission{}, newValidationError("email", "Email 格式不正確")
	}

	phone := strings.TrimSpace(in.Phone)
	if !phonePattern.MatchString(phone) {
		return domain.Submission{}, newValidationError("phone", "聯絡電話格式不正確")
	}

	industry := strings.TrimSpace(in.Industry)
	industryOther := strings.TrimSpace(in.IndustryOther)
	if industry != domain.IndustryOther {
		// Free-text industry only accompanies the 其他 choice; for every
		// other choice it is dropped rather than rejected.
		industryOther = ""
	}

	return domain.Submission{
		Kind:          kind,
		Name:          strings.TrimSpace(in.Name),
		Email:         email,
		Phone:         phone,
		Company:       strings.TrimSpace(in.Company),
		Message:       orUnspecified(in.Message),
		Industry:      orUnspecified(industry),
		IndustryOther: industryOther,
		Budget:        orUnspecified(in.Budget),
	}, nil
}

// orUnspecified folds blank optional values into the explicit sentinel so
// downstream consumers never deal with empty strings.
func orUnspecified(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return domain.Unspecified
	}
	return trimmed
}
