package view

import (
	"context"

	"contactmanager/client"
	"contactmanager/contact"
)

const (
	msgSignupFailed = "Signup failed. Please try again."
	msgLoginFailed  = "Login failed. Please check your credentials."

	minPasswordLength = 6
	maxSignupName     = 50
)

// AuthAPI is the part of the client used by the signup and login forms.
type AuthAPI interface {
	Signup(ctx context.Context, name, email, password string) (client.Session, error)
	Login(ctx context.Context, email, password string) (client.Session, error)
}

// Auth backs the signup and login forms. A successful call stores the
// session; Logout clears it.
type Auth struct {
	api    AuthAPI
	tokens TokenStore
}

func NewAuth(api AuthAPI, tokens TokenStore) *Auth {
	return &Auth{api: api, tokens: tokens}
}

// AuthError is what the form shows after a rejected signup or login.
type AuthError struct {
	Msg string
	Err error
}

func (e *AuthError) Error() string { return e.Msg }

func (e *AuthError) Unwrap() error { return e.Err }

func (a *Auth) Signup(ctx context.Context, name, email, password string) error {
	if fe := validateSignup(name, email, password); fe != nil {
		return fe
	}
	s, err := a.api.Signup(ctx, name, email, password)
	if err != nil {
		return authError(err, msgSignupFailed)
	}
	return a.tokens.Save(s)
}

func (a *Auth) Login(ctx context.Context, email, password string) error {
	if fe := validateLogin(email, password); fe != nil {
		return fe
	}
	s, err := a.api.Login(ctx, email, password)
	if err != nil {
		return authError(err, msgLoginFailed)
	}
	return a.tokens.Save(s)
}

func (a *Auth) Logout() error {
	return a.tokens.Clear()
}

// LoggedIn reports whether a token is stored.
func (a *Auth) LoggedIn() bool {
	s, err := a.tokens.Load()
	return err == nil && !s.Empty()
}

func authError(err error, fallback string) error {
	msg := client.ServerMessage(err)
	if msg == "" {
		msg = fallback
	}
	return &AuthError{Msg: msg, Err: err}
}

func validateSignup(name, email, password string) FieldErrors {
	fe := validateLogin(email, password)
	if fe == nil {
		fe = FieldErrors{}
	}
	in := contact.Input{Name: name}.Normalize()
	switch {
	case in.Name == "":
		fe["name"] = "Full name is required"
	case len([]rune(in.Name)) < minNameLength:
		fe["name"] = "Name must be at least 2 characters"
	case len([]rune(in.Name)) > maxSignupName:
		fe["name"] = "Name must be less than 50 characters"
	}
	if len(fe) == 0 {
		return nil
	}
	return fe
}

func validateLogin(email, password string) FieldErrors {
	fe := FieldErrors{}
	email = contact.Input{Email: email}.Normalize().Email
	switch {
	case email == "":
		fe["email"] = "Email is required"
	case !contact.EmailPattern.MatchString(email):
		fe["email"] = "Please enter a valid email address"
	}
	switch {
	case password == "":
		fe["password"] = "Password is required"
	case len(password) < minPasswordLength:
		fe["password"] = "Password must be at least 6 characters"
	}
	if len(fe) == 0 {
		return nil
	}
	return fe
}
