package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"safeshare/internal/client/api"
	"safeshare/internal/cryptox"
	"safeshare/internal/filex"
	"safeshare/internal/logging"
	"safeshare/internal/models"
)

// FileService moves files between disk and backend, encrypting on the way
// up and decrypting on the way down. Plaintext never leaves the client.
type FileService interface {
	Upload(ctx context.Context, path string) (*models.FileInfo, error)
	List(ctx context.Context) ([]models.FileInfo, error)
	Download(ctx context.Context, id int64, destDir string) (string, error)
	Delete(ctx context.Context, id int64) error

	Share(ctx context.Context, id int64, req *models.ShareRequest) error
	SharedWithMe(ctx context.Context) ([]models.SharedWithMeFile, error)
	MyShares(ctx context.Context) ([]models.MyShare, error)

	// Admin-only on the backend; the client just forwards the calls.
	AllShares(ctx context.Context) ([]models.ShareGrant, error)
	RevokeShare(ctx context.Context, fileID int64) error
}

type fileService struct {
	api    api.Client
	cipher *cryptox.FileCipher
	logger logging.Logger
}

func NewFileService(apiClient api.Client, cipher *cryptox.FileCipher, logger logging.Logger) FileService {
	return &fileService{api: apiClient, cipher: cipher, logger: logger}
}

// Upload reads the file at path, encrypts it, and hands the sealed payload
// to the backend.
func (f *fileService) Upload(ctx context.Context, path string) (*models.FileInfo, error) {
	plain, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	payload, err := f.cipher.Encrypt(plain)
	if err != nil {
		return nil, err
	}

	name := filepath.Base(path)
	info, err := f.api.UploadFile(ctx, name, payload)
	if err != nil {
		return nil, err
	}

	f.logger.Info(ctx, "file uploaded", "name", name, "id", info.ID, "size", len(plain))
	return info, nil
}

func (f *fileService) List(ctx context.Context) ([]models.FileInfo, error) {
	return f.api.MyFiles(ctx)
}

// Download fetches and decrypts a file into destDir, returning the path of
// the written file.
func (f *fileService) Download(ctx context.Context, id int64, destDir string) (string, error) {
	payload, name, err := f.api.DownloadFile(ctx, id)
	if err != nil {
		return "", err
	}

	plain, err := f.cipher.Decrypt(payload)
	if err != nil {
		return "", err
	}

	dir, err := filex.EnsureDir(destDir)
	if err != nil {
		return "", err
	}

	if name == "" {
		name = fmt.Sprintf("file_%d", id)
	}
	dest := filepath.Join(dir, filex.SafeBaseName(name))

	if err := os.WriteFile(dest, plain, 0o600); err != nil {
		return "", fmt.Errorf("writing %s: %w", dest, err)
	}

	f.logger.Info(ctx, "file downloaded", "id", id, "dest", dest, "size", len(plain))
	return dest, nil
}

func (f *fileService) Delete(ctx context.Context, id int64) error {
	if err := f.api.DeleteFile(ctx, id); err != nil {
		return err
	}
	f.logger.Info(ctx, "file deleted", "id", id)
	return nil
}

func (f *fileService) Share(ctx context.Context, id int64, req *models.ShareRequest) error {
	if err := f.api.ShareFile(ctx, id, req); err != nil {
		return err
	}
	f.logger.Info(ctx, "file shared", "id", id, "type", req.ShareType, "permission", req.Permission)
	return nil
}

func (f *fileService) SharedWithMe(ctx context.Context) ([]models.SharedWithMeFile, error) {
	return f.api.SharedWithMe(ctx)
}

func (f *fileService) MyShares(ctx context.Context) ([]models.MyShare, error) {
	return f.api.MyShares(ctx)
}

func (f *fileService) AllShares(ctx context.Context) ([]models.ShareGrant, error) {
	return f.api.AllShares(ctx)
}

func (f *fileService) RevokeShare(ctx context.Context, fileID int64) error {
	if err := f.api.RevokeShare(ctx, fileID); err != nil {
		return err
	}
	f.logger.Info(ctx, "share revoked", "file_id", fileID)
	return nil
}
