package services

import (
	"context"
	"errors"
	"testing"
)

func TestRegisterAndLogin(t *testing.T) {
	svc := NewAuthService(&fakeUserRepo{})

	user, err := svc.Register(context.Background(), RegisterInput{
		FirstName: "Anne",
		LastName:  "Visser",
		Email:     "Anne.Visser@Example.org",
		Password:  "goed-geheim",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Email != "anne.visser@example.org" {
		t.Errorf("expected normalized email, got %q", user.Email)
	}
	if user.PasswordHash != "" {
		t.Error("expected password hash to be cleared in response")
	}

	logged, err := svc.Login(context.Background(), LoginInput{
		Email:    "anne.visser@example.org",
		Password: "goed-geheim",
	})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if logged.ID != user.ID {
		t.Errorf("expected user %d, got %d", user.ID, logged.ID)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := NewAuthService(&fakeUserRepo{})

	if _, err := svc.Register(context.Background(), RegisterInput{
		FirstName: "Anne", LastName: "Visser",
		Email: "anne@example.org", Password: "goed-geheim",
	}); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	_, err := svc.Login(context.Background(), LoginInput{Email: "anne@example.org", Password: "fout"})
	if !errors.Is(err, ErrAuthInvalidCredentials) {
		t.Errorf("expected ErrAuthInvalidCredentials, got %v", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc := NewAuthService(&fakeUserRepo{})

	_, err := svc.Login(context.Background(), LoginInput{Email: "niemand@example.org", Password: "x"})
	if !errors.Is(err, ErrAuthInvalidCredentials) {
		t.Errorf("expected ErrAuthInvalidCredentials, got %v", err)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := NewAuthService(&fakeUserRepo{})

	input := RegisterInput{
		FirstName: "Anne", LastName: "Visser",
		Email: "anne@example.org", Password: "goed-geheim",
	}
	if _, err := svc.Register(context.Background(), input); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	_, err := svc.Register(context.Background(), input)
	if !errors.Is(err, ErrAuthEmailTaken) {
		t.Errorf("expected ErrAuthEmailTaken, got %v", err)
	}
}

func TestRegister_ShortPassword(t *testing.T) {
	svc := NewAuthService(&fakeUserRepo{})

	_, err := svc.Register(context.Background(), RegisterInput{
		FirstName: "Anne", LastName: "Visser",
		Email: "anne@example.org", Password: "kort",
	})
	if !errors.Is(err, ErrPasswordTooShort) {
		t.Errorf("expected ErrPasswordTooShort, got %v", err)
	}
}
