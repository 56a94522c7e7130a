package services

import (
	"regexp"
	"strings"

	"github.com/dmitrijs2005/codehunt/internal/common"
)

var emailShape = regexp.MustCompile(`\S+@\S+\.\S+`)

func checkEmail(f fieldErrors, email, missing, malformed string) {
	switch {
	case strings.TrimSpace(email) == "":
		f["email"] = missing
	case !emailShape.MatchString(email):
		f["email"] = malformed
	}
}

func checkNewPassword(f fieldErrors, password, confirm, missing, confirmMissing string) {
	switch {
	case password == "":
		f["password"] = missing
	case len(password) < common.MinPasswordLength:
		f["password"] = "Password must be at least 8 characters"
	}
	switch {
	case confirm == "":
		f["confirm_password"] = confirmMissing
	case password != confirm:
		f["confirm_password"] = "Passwords do not match"
	}
}

// ValidateSignIn checks the sign-in form.
func ValidateSignIn(email, password string) error {
	f := fieldErrors{}
	checkEmail(f, email, "Email is required", "Enter a valid email")
	if password == "" {
		f["password"] = "Password is required"
	}
	return f.err()
}

func ValidateSignUp(email, password, confirm string) error {
	f := fieldErrors{}
	checkEmail(f, email, "Email is required", "Enter a valid email")
	checkNewPassword(f, password, confirm, "Password is required", "Please confirm your password")
	return f.err()
}

func ValidateResetRequest(email string) error {
	f := fieldErrors{}
	checkEmail(f, email, "Please enter your email address", "Enter a valid email address")
	return f.err()
}

func ValidateNewPassword(password, confirm string) error {
	f := fieldErrors{}
	checkNewPassword(f, password, confirm, "New password is required", "Please confirm your new password")
	return f.err()
}
