package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"safeshare/internal/common"
	"safeshare/internal/models"
)

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// Upload encrypts and uploads the file at path.
func (a *App) Upload(ctx context.Context, path string) error {
	info, err := a.files.Upload(ctx, path)
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Uploaded %s as file #%d.", info.OriginalFilename, info.ID))
	return nil
}

// List prints the caller's files.
func (a *App) List(ctx context.Context) error {
	files, err := a.files.List(ctx)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		printlnFn("No files.")
		return nil
	}
	for _, f := range files {
		printlnFn(fmt.Sprintf("#%d  %s  %s", f.ID, f.OriginalFilename, f.UploadedAt.Format("2006-01-02 15:04")))
	}
	return nil
}

// Download fetches and decrypts a file into the configured download directory.
func (a *App) Download(ctx context.Context, idArg string) error {
	id, err := parseID(idArg)
	if err != nil {
		return err
	}

	dest, err := a.files.Download(ctx, id, a.config.DownloadDir)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			printlnFn("No such file.")
			return nil
		}
		return err
	}
	printlnFn("Saved to", dest)
	return nil
}

// Delete removes a file from the backend.
func (a *App) Delete(ctx context.Context, idArg string) error {
	id, err := parseID(idArg)
	if err != nil {
		return err
	}
	if err := a.files.Delete(ctx, id); err != nil {
		return err
	}
	printlnFn("Deleted.")
	return nil
}

// Share interactively collects grant parameters and shares a file.
func (a *App) Share(ctx context.Context, idArg string) error {
	id, err := parseID(idArg)
	if err != nil {
		return err
	}

	shareType, err := getSimpleText(a.reader, "Share type (public/private)", os.Stdout)
	if err != nil {
		return err
	}
	if shareType != models.SharePublic && shareType != models.SharePrivate {
		printlnFn("Share type must be 'public' or 'private'.")
		return nil
	}

	permission, err := getSimpleText(a.reader, "Permission (view/download)", os.Stdout)
	if err != nil {
		return err
	}
	if permission != models.PermissionView && permission != models.PermissionDownload {
		printlnFn("Permission must be 'view' or 'download'.")
		return nil
	}

	daysText, err := getSimpleText(a.reader, "Expires in days", os.Stdout)
	if err != nil {
		return err
	}
	days, err := strconv.Atoi(daysText)
	if err != nil || days <= 0 {
		printlnFn("Expiry must be a positive number of days.")
		return nil
	}

	req := &models.ShareRequest{ShareType: shareType, Permission: permission, ExpiresInDays: days}

	if shareType == models.SharePrivate {
		usersText, err := getSimpleText(a.reader, "Usernames (comma separated)", os.Stdout)
		if err != nil {
			return err
		}
		for _, u := range strings.Split(usersText, ",") {
			if u = strings.TrimSpace(u); u != "" {
				req.Users = append(req.Users, u)
			}
		}
		if len(req.Users) == 0 {
			printlnFn("A private share needs at least one username.")
			return nil
		}
	}

	if err := a.files.Share(ctx, id, req); err != nil {
		return err
	}
	printlnFn("Shared.")
	return nil
}

// MyShares lists grants the caller handed out.
func (a *App) MyShares(ctx context.Context) error {
	shares, err := a.files.MyShares(ctx)
	if err != nil {
		return err
	}
	if len(shares) == 0 {
		printlnFn("No shares.")
		return nil
	}
	for _, s := range shares {
		with := s.SharedWith
		if s.IsPublic {
			with = "everyone"
		}
		status := ""
		if s.IsExpired {
			status = "  [expired]"
		}
		printlnFn(fmt.Sprintf("#%d  %s  -> %s  %s  until %s%s",
			s.FileID, s.Filename, with, s.Permission, s.ExpiresAt.Format("2006-01-02"), status))
	}
	return nil
}

// SharedWithMe lists files other users granted to the caller.
func (a *App) SharedWithMe(ctx context.Context) error {
	files, err := a.files.SharedWithMe(ctx)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		printlnFn("Nothing shared with you.")
		return nil
	}
	for _, f := range files {
		printlnFn(fmt.Sprintf("#%d  %s  from %s  %s  until %s",
			f.FileID, f.Filename, f.SharedBy, f.Permission, f.ExpiresAt.Format("2006-01-02")))
	}
	return nil
}

// AllShares lists every grant in the system. The backend rejects non-admins.
func (a *App) AllShares(ctx context.Context) error {
	shares, err := a.files.AllShares(ctx)
	if err != nil {
		return err
	}
	if len(shares) == 0 {
		printlnFn("No shares.")
		return nil
	}
	for _, s := range shares {
		printlnFn(fmt.Sprintf("grant #%d  file #%d %s  by %s  %s  until %s",
			s.ID, s.FileID, s.Filename, s.SharedBy, s.Permission, s.ExpiresAt.Format("2006-01-02")))
	}
	return nil
}

// RevokeShare removes sharing of a file. The backend rejects non-admins.
func (a *App) RevokeShare(ctx context.Context, idArg string) error {
	id, err := parseID(idArg)
	if err != nil {
		return err
	}
	if err := a.files.RevokeShare(ctx, id); err != nil {
		return err
	}
	printlnFn("Share revoked.")
	return nil
}
