package view

import (
	"sort"
	"strings"
	"unicode/utf8"

	"contactmanager/contact"
)

const minNameLength = 2

// FieldErrors maps a form field to the message shown next to it.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, fe[f])
	}
	return strings.Join(msgs, "; ")
}

// ValidateForm applies the checks made before a contact is sent. It returns
// nil when the form is valid.
func ValidateForm(in contact.Input) FieldErrors {
	in = in.Normalize()
	fe := FieldErrors{}

	switch {
	case in.Name == "":
		fe["name"] = "Name is required"
	case utf8.RuneCountInString(in.Name) < minNameLength:
		fe["name"] = "Name must be at least 2 characters"
	}
	if in.Email != "" && !contact.EmailPattern.MatchString(in.Email) {
		fe["email"] = "Please enter a valid email address"
	}
	if in.Phone != "" && !contact.PhonePattern.MatchString(in.Phone) {
		fe["phone"] = "Please enter a valid phone number"
	}

	if len(fe) == 0 {
		return nil
	}
	return fe
}
