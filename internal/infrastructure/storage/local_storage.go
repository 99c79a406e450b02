package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"video-scheduler/internal/domain/repositories"
)

type LocalStorage struct {
	BasePath string
}

func (l *LocalStorage) Upload(ctx context.Context, file io.Reader, metadata map[string]string) (repositories.StoredObject, error) {
	filename := metadata["filename"]
	folder := metadata["folder"]
	relPath := filepath.Join(folder, filename)
	fullPath := filepath.Join(l.BasePath, relPath)

	if err := os.MkdirAll(filepath.Dir(fullPath), os.ModePerm); err != nil {
		return repositories.StoredObject{}, fmt.Errorf("could not create directory: %w", err)
	}

	outFile, err := os.Create(fullPath)
	if err != nil {
		return repositories.StoredObject{}, fmt.Errorf("could not create file: %w", err)
	}
	defer outFile.Close()

	if _, err := io.Copy(outFile, file); err != nil {
		return repositories.StoredObject{}, fmt.Errorf("could not write file: %w", err)
	}

	return repositories.StoredObject{FileID: relPath, URL: fullPath}, nil
}

func (l *LocalStorage) Delete(ctx context.Context, fileID string) error {
	return os.Remove(filepath.Join(l.BasePath, fileID))
}
