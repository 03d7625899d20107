package auth

import (
	"strings"

	"github.com/KirkDiggler/quest-forge/internal/errors"
)

// ErrorKind identifies an auth failure the client can explain to the player
type ErrorKind string

// Known auth failures. Each is also the errors.Reason the provider attaches.
const (
	KindUnknown            ErrorKind = ""
	KindInvalidCredentials ErrorKind = "invalid_credentials"
	KindEmailNotConfirmed  ErrorKind = "email_not_confirmed"
	KindUserNotFound       ErrorKind = "user_not_found"
	KindWeakPassword       ErrorKind = "weak_password"
	KindInvalidEmail       ErrorKind = "email_address_invalid"
	KindSignupDisabled     ErrorKind = "signup_disabled"
	KindEmailNotAuthorized ErrorKind = "email_address_not_authorized"
	KindTooManyRequests    ErrorKind = "too_many_requests"
	KindEmailTaken         ErrorKind = "email_taken"
	KindInvalidToken       ErrorKind = "invalid_token"
)

// Description is what a client shows for an auth failure
type Description struct {
	Title   string
	Message string
}

const (
	fallbackTitle   = "Authentication Error"
	fallbackMessage = "An unexpected error occurred. Please try again."
)

var descriptions = map[ErrorKind]Description{
	KindInvalidCredentials: {
		Title:   "Login Failed",
		Message: "Invalid email or password. Please check your credentials and try again.",
	},
	KindEmailNotConfirmed: {
		Title:   "Email Not Confirmed",
		Message: "Please check your email and click the confirmation link before signing in.",
	},
	KindUserNotFound: {
		Title:   "User Not Found",
		Message: "No account found with this email address. Please sign up first.",
	},
	KindWeakPassword: {
		Title:   "Weak Password",
		Message: "Password should be at least 6 characters long with a mix of letters and numbers.",
	},
	KindInvalidEmail: {
		Title:   "Invalid Email",
		Message: "Please enter a valid email address.",
	},
	KindSignupDisabled: {
		Title:   "Sign Up Disabled",
		Message: "New user registration is currently disabled. Please contact support.",
	},
	KindEmailNotAuthorized: {
		Title:   "Email Not Authorized",
		Message: "This email address is not authorized to create an account.",
	},
	KindTooManyRequests: {
		Title:   "Too Many Attempts",
		Message: "Too many failed attempts. Please wait a few minutes before trying again.",
	},
	KindEmailTaken: {
		Title:   "Account Exists",
		Message: "An account with this email already exists. Please sign in instead.",
	},
	KindInvalidToken: {
		Title:   "Session Expired",
		Message: "Your session has expired. Please sign in again.",
	},
}

// rule maps a lowercased error text to a kind. Rules are checked in order
// and the first match wins, so the broad "password" and "email" rules sit
// after the specific ones.
type rule struct {
	kind    ErrorKind
	needles []string
}

var messageRules = []rule{
	{kind: KindInvalidCredentials, needles: []string{"invalid login credentials", "invalid credentials"}},
	{kind: KindEmailNotConfirmed, needles: []string{"email not confirmed"}},
	{kind: KindUserNotFound, needles: []string{"user not found"}},
	{kind: KindWeakPassword, needles: []string{"weak password", "password"}},
	{kind: KindInvalidEmail, needles: []string{"invalid email", "email"}},
	{kind: KindTooManyRequests, needles: []string{"too many requests", "rate limit"}},
}

// Classify names the auth failure behind err. The reason attached by the
// provider decides first; otherwise the error text is matched against the
// rule table.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}

	if kind := ErrorKind(errors.GetReason(err)); kind != KindUnknown {
		if _, ok := descriptions[kind]; ok {
			return kind
		}
	}

	text := strings.ToLower(err.Error())
	for _, r := range messageRules {
		for _, needle := range r.needles {
			if strings.Contains(text, needle) {
				return r.kind
			}
		}
	}

	return KindUnknown
}

// Describe returns the player-facing title and message for err. Unknown
// failures keep their own message under a generic title.
func Describe(err error) Description {
	if d, ok := descriptions[Classify(err)]; ok {
		return d
	}

	msg := errors.GetMessage(err)
	if msg == "" {
		msg = fallbackMessage
	}
	return Description{Title: fallbackTitle, Message: msg}
}

func authError(base *errors.Error, kind ErrorKind) *errors.Error {
	return base.WithReason(errors.Reason(kind))
}
