package model

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// emailPattern is deliberately permissive; the backend owns real validation.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const minPasswordLength = 8

// LoginForm carries the login credentials.
type LoginForm struct {
	Email    string
	Password string
}

func (f *LoginForm) Validate() error {
	f.Email = strings.TrimSpace(f.Email)
	if f.Email == "" || f.Password == "" {
		return fmt.Errorf("email and password are required")
	}
	if !emailPattern.MatchString(f.Email) {
		return fmt.Errorf("invalid email format")
	}
	if len(f.Password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	return nil
}

// RegistrationForm carries the new-business fields. The WhatsApp onboarding
// fields are optional; a business can wire ordering up later.
type RegistrationForm struct {
	BusinessName string
	BusinessType string
	OwnerName    string
	Phone        string
	Email        string
	Password     string

	VerifyToken   string
	WAPhoneID     string
	WAVerifyToken string
}

func (f *RegistrationForm) Validate() error {
	f.BusinessName = strings.TrimSpace(f.BusinessName)
	f.BusinessType = strings.TrimSpace(f.BusinessType)
	f.OwnerName = strings.TrimSpace(f.OwnerName)
	f.Phone = strings.TrimSpace(f.Phone)
	f.Email = strings.TrimSpace(f.Email)
	f.VerifyToken = strings.TrimSpace(f.VerifyToken)
	f.WAPhoneID = strings.TrimSpace(f.WAPhoneID)
	f.WAVerifyToken = strings.TrimSpace(f.WAVerifyToken)

	if f.BusinessName == "" || f.BusinessType == "" || f.OwnerName == "" || f.Phone == "" {
		return fmt.Errorf("all required fields must be filled")
	}
	if f.BusinessType != "restaurant" && f.BusinessType != "bakery" {
		return fmt.Errorf("business type must be restaurant or bakery")
	}
	if !emailPattern.MatchString(f.Email) {
		return fmt.Errorf("invalid email format")
	}
	if len(f.Password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	return nil
}

// CustomerForm carries the add-customer and add-non-member fields.
// PlanEndDate is only required for members.
type CustomerForm struct {
	Name        string
	Phone       string
	PlanEndDate string
	Member      bool
}

func (f *CustomerForm) Validate() error {
	f.Name = strings.TrimSpace(f.Name)
	f.Phone = strings.TrimSpace(f.Phone)

	if f.Name == "" || f.Phone == "" {
		return fmt.Errorf("name and phone are required")
	}
	if f.Member && strings.TrimSpace(f.PlanEndDate) == "" {
		return fmt.Errorf("plan end date is required")
	}
	return nil
}

// PaymentLinkForm carries the payment-link update. The link gets a strict
// parse; a bad URL here would be pasted straight into customer messages.
type PaymentLinkForm struct {
	Link        string
	Description string
}

func (f *PaymentLinkForm) Validate() error {
	f.Link = strings.TrimSpace(f.Link)
	f.Description = strings.TrimSpace(f.Description)

	if f.Link == "" {
		return fmt.Errorf("payment link is required")
	}
	parsed, err := url.ParseRequestURI(f.Link)
	if err != nil {
		return fmt.Errorf("payment link is not a valid URL")
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("payment link must be an http(s) URL")
	}
	return nil
}

// ConfirmOrderForm identifies the order being confirmed. The browser has been
// seen sending the literal string "undefined"; treat it as missing.
type ConfirmOrderForm struct {
	OrderID      string
	CustomerHash string
}

func (f *ConfirmOrderForm) Validate() error {
	f.OrderID = strings.TrimSpace(f.OrderID)
	f.CustomerHash = strings.TrimSpace(f.CustomerHash)

	if f.OrderID == "" || f.OrderID == "undefined" ||
		f.CustomerHash == "" || f.CustomerHash == "undefined" {
		return fmt.Errorf("invalid order data")
	}
	return nil
}
