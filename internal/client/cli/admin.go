package cli

import (
	"context"
	"errors"
	"fmt"

	"safeshare/internal/common"
)

// Users lists every account. Rejected locally for non-admin callers.
func (a *App) Users(ctx context.Context) error {
	users, err := a.admin.ListUsers(ctx)
	if err != nil {
		if errors.Is(err, common.ErrAdminOnly) {
			printlnFn("Admin role required.")
			return nil
		}
		return err
	}
	if len(users) == 0 {
		printlnFn("No users.")
		return nil
	}
	for _, u := range users {
		mfa := ""
		if u.MFAEnabled {
			mfa = "  [mfa]"
		}
		printlnFn(fmt.Sprintf("#%d  %s <%s>  %s%s", u.ID, u.Username, u.Email, u.Role, mfa))
	}
	return nil
}

// SetRole changes another user's role. Rejected locally for non-admin callers.
func (a *App) SetRole(ctx context.Context, idArg, role string) error {
	id, err := parseID(idArg)
	if err != nil {
		return err
	}
	if err := a.admin.UpdateUserRole(ctx, id, role); err != nil {
		if errors.Is(err, common.ErrAdminOnly) {
			printlnFn("Admin role required.")
			return nil
		}
		if errors.Is(err, common.ErrNotFound) {
			printlnFn("No such user.")
			return nil
		}
		return err
	}
	printlnFn(fmt.Sprintf("User #%d is now %s.", id, role))
	return nil
}
