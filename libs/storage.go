package libs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// StoredObject is where an upload ended up. Key is what Delete expects.
type StoredObject struct {
	URL string
	Key string
}

func uniqueName(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	base = strings.ReplaceAll(base, " ", "_")
	name := fmt.Sprintf("%d_%s%s", time.Now().UnixNano(), base, ext)
	if len(name) > 255 {
		name = fmt.Sprintf("%d%s", time.Now().UnixNano(), ext)
	}
	return name
}

// LocalStorage writes uploads below Root and serves them from URLPrefix.
type LocalStorage struct {
	Root      string
	URLPrefix string
}

func NewLocalStorage(root, urlPrefix string) (*LocalStorage, error) {
	if err := os.MkdirAll(root, os.ModePerm); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStorage{Root: root, URLPrefix: strings.TrimSuffix(urlPrefix, "/")}, nil
}

func (s *LocalStorage) Save(ctx context.Context, r io.Reader, folder, filename string) (StoredObject, error) {
	dir := filepath.Join(s.Root, folder)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return StoredObject{}, err
	}

	name := uniqueName(filename)
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return StoredObject{}, err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		return StoredObject{}, fmt.Errorf("write upload: %w", err)
	}

	key := filepath.ToSlash(filepath.Join(folder, name))
	return StoredObject{URL: s.URLPrefix + "/" + key, Key: key}, nil
}

func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	fullPath := filepath.Join(s.Root, filepath.FromSlash(key))
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
