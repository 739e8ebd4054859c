package httpserver

import "contactmanager/contact"

type SignupRequest struct {
	Name     string `json:"name" validate:"required,notblank,max=100"`
	Email    string `json:"email" validate:"required,emailaddr,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,emailaddr,max=255"`
	Password string `json:"password" validate:"required,max=72"`
}

// ContactRequest is validated by the contact service, after the ownership
// check on updates.
type ContactRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (r ContactRequest) ToInput() contact.Input {
	return contact.Input{
		Name:  r.Name,
		Email: r.Email,
		Phone: r.Phone,
	}
}
