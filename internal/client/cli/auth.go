package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"safeshare/internal/client/services"
	"safeshare/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts the user for a username, email, and password and attempts
// to create a new account. The password byte slice is securely wiped before
// returning.
func (a *App) Register(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.auth.Register(ctx, userName, email, string(password)); err != nil {
		return err
	}

	printlnFn("Success! You can now log in.")
	return nil
}

// Login prompts the user for credentials and tries to authenticate. When the
// account has MFA enabled the user is asked for the 6-digit code; an empty
// code cancels the challenge and returns to the anonymous state.
//
// The password is securely wiped before returning.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	sess, err := a.auth.Login(ctx, userName, string(password))
	if err != nil {
		if errors.Is(err, common.ErrAuthFailed) {
			printlnFn("Invalid username or password.")
			return nil
		}
		return err
	}

	if a.auth.State() == services.StateAwaitingMFA {
		sess, err = a.completeMFAChallenge(ctx)
		if err != nil || sess == nil {
			return err
		}
	}

	a.userName = sess.Profile.Username
	printlnFn(fmt.Sprintf("Logged in as %s (%s).", sess.Profile.Username, sess.Profile.Role))
	return nil
}

// completeMFAChallenge loops prompting for the verification code until the
// challenge succeeds or the user cancels with an empty code. A nil session
// with a nil error means the user cancelled.
func (a *App) completeMFAChallenge(ctx context.Context) (*services.Session, error) {
	for {
		code, err := getSimpleText(a.reader, "Enter the 6-digit code (empty to cancel)", os.Stdout)
		if err != nil {
			return nil, err
		}
		if code == "" {
			if err := a.auth.Cancel(ctx); err != nil {
				return nil, err
			}
			printlnFn("Login cancelled.")
			return nil, nil
		}

		sess, err := a.auth.SubmitCode(ctx, code)
		switch {
		case err == nil:
			return sess, nil
		case errors.Is(err, common.ErrMalformedCode):
			printlnFn("The code must be 6 digits.")
		case errors.Is(err, common.ErrInvalidCode):
			printlnFn("Wrong code, try again.")
		case errors.Is(err, common.ErrSessionTimeout):
			printlnFn("The session did not come up in time, try again.")
		default:
			return nil, err
		}
	}
}

// Logout ends the session on the backend (best effort) and clears local
// credentials. The locally stored authenticator secret survives.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	a.userName = ""
	printlnFn("Logged out.")
	return nil
}

// SetupMFA provisions a TOTP secret, shows it to the user, and confirms it
// with a first code before enabling MFA on the account.
func (a *App) SetupMFA(ctx context.Context) error {
	resp, err := a.auth.SetupMFA(ctx)
	if err != nil {
		return err
	}

	printlnFn("Scan this secret with your authenticator app (it is also stored locally):")
	printlnFn("  secret:", resp.Secret)
	printlnFn("  url:   ", resp.OTPAuthURL)

	code, err := getSimpleText(a.reader, "Enter the first 6-digit code to confirm", os.Stdout)
	if err != nil {
		return err
	}
	if err := a.auth.ConfirmMFA(ctx, code); err != nil {
		return err
	}

	printlnFn("MFA enabled.")
	return nil
}

// DisableMFA turns off MFA for the account and drops the locally stored
// authenticator secret.
func (a *App) DisableMFA(ctx context.Context) error {
	if err := a.auth.DisableMFA(ctx); err != nil {
		return err
	}
	printlnFn("MFA disabled.")
	return nil
}

// Totp prints the current code from the locally stored authenticator secret.
func (a *App) Totp(ctx context.Context) error {
	code, err := a.auth.CurrentTOTP(ctx)
	if err != nil {
		if errors.Is(err, services.ErrNoMFASecret) {
			printlnFn("No authenticator secret stored; run setup-mfa first.")
			return nil
		}
		return err
	}
	printlnFn("Current code:", code)
	return nil
}

// WhoAmI shows the profile of the current session.
func (a *App) WhoAmI(ctx context.Context) error {
	sess, err := a.sessions.Current(ctx)
	if err != nil {
		if errors.Is(err, common.ErrNoCredential) {
			printlnFn("Not logged in.")
			return nil
		}
		return err
	}
	p := sess.Profile
	printlnFn(fmt.Sprintf("#%d %s <%s> role=%s mfa=%v", p.ID, p.Username, p.Email, p.Role, p.MFAEnabled))
	return nil
}
