package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/semmidev/mongos3/internal/domain"
)

type memoryObject struct {
	data        []byte
	contentType string
	metadata    map[string]string
}

// memoryStore is an in-memory domain.ObjectStore.
type memoryStore struct {
	bucket  string
	objects map[string]memoryObject
	noBody  map[string]bool

	uploadErr  error
	failAfter  int
	listErr    error
	deleteErr  error
	uploadKeys []string
	deleted    []string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		bucket:    "test-bucket",
		objects:   map[string]memoryObject{},
		noBody:    map[string]bool{},
		failAfter: -1,
	}
}

func (m *memoryStore) put(key, content string) {
	m.objects[key] = memoryObject{data: []byte(content)}
}

func (m *memoryStore) keys() []string {
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (m *memoryStore) Bucket() string { return m.bucket }

func (m *memoryStore) Upload(_ context.Context, in domain.UploadInput) error {
	if m.uploadErr != nil && len(m.uploadKeys) >= m.failAfter {
		return m.uploadErr
	}
	data, err := os.ReadFile(in.LocalPath)
	if err != nil {
		return err
	}
	m.uploadKeys = append(m.uploadKeys, in.Key)
	m.objects[in.Key] = memoryObject{data: data, contentType: in.ContentType, metadata: in.Metadata}
	return nil
}

func (m *memoryStore) ListFolders(_ context.Context, prefix string) ([]string, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	seen := map[string]bool{}
	var folders []string
	for key := range m.objects {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		rest := strings.TrimPrefix(key, prefix)
		i := strings.Index(rest, "/")
		if i < 0 {
			continue
		}
		folder := prefix + rest[:i+1]
		if !seen[folder] {
			seen[folder] = true
			folders = append(folders, folder)
		}
	}
	return folders, nil
}

func (m *memoryStore) ListObjects(_ context.Context, prefix string) ([]domain.ObjectInfo, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var objects []domain.ObjectInfo
	for _, key := range m.keys() {
		if strings.HasPrefix(key, prefix) {
			objects = append(objects, domain.ObjectInfo{Key: key, Size: int64(len(m.objects[key].data))})
		}
	}
	return objects, nil
}

func (m *memoryStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	if m.noBody[key] {
		return nil, nil
	}
	obj, ok := m.objects[key]
	if !ok {
		return nil, fmt.Errorf("NoSuchKey: %s", key)
	}
	return io.NopCloser(bytes.NewReader(obj.data)), nil
}

func (m *memoryStore) Delete(_ context.Context, keys []string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	for _, k := range keys {
		delete(m.objects, k)
		m.deleted = append(m.deleted, k)
	}
	return nil
}

// fakeDumper writes a fixed file tree the way mongodump lays out a dump.
type fakeDumper struct {
	name      string
	timestamp string
	files     map[string]string
	err       error
}

func (f *fakeDumper) GetName() string { return f.name }

func (f *fakeDumper) Dump(_ context.Context, backupDir string) (domain.DumpResult, error) {
	if f.err != nil {
		return domain.DumpResult{}, f.err
	}
	out := filepath.Join(backupDir, domain.BackupID(f.name, f.timestamp))
	for rel, content := range f.files {
		path := filepath.Join(out, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return domain.DumpResult{}, err
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return domain.DumpResult{}, err
		}
	}
	return domain.DumpResult{OutputPath: out, DatabaseName: f.name, Timestamp: f.timestamp}, nil
}

type fakeRestorer struct {
	name    string
	err     error
	calls   int
	source  string
	drop    bool
	present []string
}

func (f *fakeRestorer) GetName() string { return f.name }

func (f *fakeRestorer) Restore(_ context.Context, sourceDir string, drop bool) (domain.RestoreResult, error) {
	f.calls++
	f.source = sourceDir
	f.drop = drop
	if f.err != nil {
		return domain.RestoreResult{}, f.err
	}
	entries, _ := os.ReadDir(filepath.Join(sourceDir, f.name))
	for _, e := range entries {
		f.present = append(f.present, e.Name())
	}
	return domain.RestoreResult{DatabaseName: f.name, SourcePath: sourceDir}, nil
}

type dirWorkspace struct {
	base string
}

func (d *dirWorkspace) BasePath() string           { return d.base }
func (d *dirWorkspace) GetPath(name string) string { return filepath.Join(d.base, name) }
func (d *dirWorkspace) Remove(name string) error {
	if name == "" {
		return errors.New("empty name")
	}
	return os.RemoveAll(d.GetPath(name))
}

type recordingLogger struct {
	mu    sync.Mutex
	infos []string
	warns []string
	errs  []string
}

func (l *recordingLogger) Infof(template string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, fmt.Sprintf(template, args...))
}

func (l *recordingLogger) Warnf(template string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, fmt.Sprintf(template, args...))
}

func (l *recordingLogger) Errorf(template string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errs = append(l.errs, fmt.Sprintf(template, args...))
}
