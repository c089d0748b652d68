package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"admission-portal-backend/internal/domain"
	"admission-portal-backend/internal/logger"
)

// LocalStorage keeps documents on the local filesystem under rootDir.
type LocalStorage struct {
	rootDir string
}

// NewLocalStorage creates rootDir if needed.
func NewLocalStorage(rootDir string) (*LocalStorage, error) {
	if rootDir == "" {
		return nil, errors.New("upload directory is required")
	}
	if err := os.MkdirAll(rootDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStorage{rootDir: rootDir}, nil
}

// resolve maps a key to a path inside rootDir, refusing keys that escape it.
func (s *LocalStorage) resolve(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("%w: empty storage key", domain.ErrStorageFailure)
	}
	clean := filepath.Clean(filepath.FromSlash(key))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: invalid storage key %q", domain.ErrStorageFailure, key)
	}
	return filepath.Join(s.rootDir, clean), nil
}

func (s *LocalStorage) Save(ctx context.Context, key string, reader io.Reader, maxBytes int64) (int64, error) {
	fullPath, err := s.resolve(key)
	if err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return 0, fmt.Errorf("%w: failed to create directories: %v", domain.ErrStorageFailure, err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to create file: %v", domain.ErrStorageFailure, err)
	}

	src := reader
	if maxBytes > 0 {
		src = io.LimitReader(reader, maxBytes+1)
	}
	n, err := io.Copy(file, src)
	closeErr := file.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(fullPath)
		return 0, fmt.Errorf("%w: failed to write file: %v", domain.ErrStorageFailure, err)
	}
	if maxBytes > 0 && n > maxBytes {
		os.Remove(fullPath)
		return 0, ErrFileTooLarge
	}

	logger.Debug("Stored file", "key", key, "size", n)
	return n, nil
}

func (s *LocalStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	fullPath, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(fullPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%w: failed to open file: %v", domain.ErrStorageFailure, err)
	}
	return file, nil
}

func (s *LocalStorage) Exists(ctx context.Context, key string) (bool, int64, error) {
	fullPath, err := s.resolve(key)
	if err != nil {
		return false, 0, err
	}
	info, err := os.Stat(fullPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, 0, nil
		}
		return false, 0, fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
	}
	return true, info.Size(), nil
}

func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	fullPath, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: failed to delete file: %v", domain.ErrStorageFailure, err)
	}
	return nil
}
