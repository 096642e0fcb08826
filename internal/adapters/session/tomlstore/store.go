// Package tomlstore persists the session credential under the user's
// taskdeck config directory.
package tomlstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/taskdeck/taskdeck-cli/internal/domain"
	"github.com/taskdeck/taskdeck-cli/internal/ports"
)

const (
	configName      = "config"
	configType      = "toml"
	sessionPathKey  = "session.path"
	sessionFileMode = 0o600
	sessionDirMode  = 0o700
	configDirName   = ".taskdeck"
	sessionFileName = "session.toml"
	tempFilePattern = ".session-*.toml.tmp"
)

type Store struct {
	sessionPath string
	mu          *sync.RWMutex
}

// Store instances pointing at the same file share a lock.
var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.SessionStore = (*Store)(nil)

func NewStore(cfg *viper.Viper) (*Store, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	defaultPath := filepath.Join(homeDir, configDirName, sessionFileName)

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(filepath.Join(homeDir, configDirName))
	cfg.SetDefault(sessionPathKey, defaultPath)

	if err := cfg.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	sessionPath := cfg.GetString(sessionPathKey)
	if sessionPath == "" {
		return nil, errors.New("session path is empty")
	}
	sessionPath = filepath.Clean(sessionPath)

	return &Store{sessionPath: sessionPath, mu: lockForPath(sessionPath)}, nil
}

func (s *Store) Current(ctx context.Context) (domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return domain.Session{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.sessionPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.Session{}, domain.ErrNoSession
		}
		return domain.Session{}, fmt.Errorf("read session file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return domain.Session{}, fmt.Errorf("decode session file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return domain.Session{}, err
	}

	session := file.Session.toDomain()
	if !session.Valid() {
		return domain.Session{}, domain.ErrNoSession
	}

	return session, nil
}

func (s *Store) Save(ctx context.Context, session domain.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !session.Valid() {
		return errors.New("session must carry a user id and a token")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file := fileSchema{Version: currentSchemaVersion, Session: fromDomain(session)}

	encoded, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode session file: %w", err)
	}

	dir := filepath.Dir(s.sessionPath)
	if err := os.MkdirAll(dir, sessionDirMode); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp session file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(encoded); err != nil {
		temp.Close()
		os.Remove(tempPath)
		return fmt.Errorf("write temp session file: %w", err)
	}
	if err := temp.Chmod(sessionFileMode); err != nil {
		temp.Close()
		os.Remove(tempPath)
		return fmt.Errorf("chmod temp session file: %w", err)
	}
	if err := temp.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("close temp session file: %w", err)
	}

	if err := os.Rename(tempPath, s.sessionPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("replace session file: %w", err)
	}

	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.sessionPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}

	return nil
}

// Path returns the resolved session file location.
func (s *Store) Path() string { return s.sessionPath }

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

const currentSchemaVersion = 1

type fileSchema struct {
	Version int           `toml:"version"`
	Session sessionSchema `toml:"session"`
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported session schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type sessionSchema struct {
	UserID  string `toml:"user_id"`
	Token   string `toml:"token"`
	Email   string `toml:"email,omitempty"`
	SavedAt string `toml:"saved_at"`
}

func (s sessionSchema) toDomain() domain.Session {
	savedAt, _ := time.Parse(time.RFC3339, s.SavedAt)
	return domain.Session{
		UserID:  s.UserID,
		Token:   s.Token,
		Email:   s.Email,
		SavedAt: savedAt,
	}
}

func fromDomain(session domain.Session) sessionSchema {
	schema := sessionSchema{
		UserID: session.UserID,
		Token:  session.Token,
		Email:  session.Email,
	}
	if !session.SavedAt.IsZero() {
		schema.SavedAt = session.SavedAt.UTC().Format(time.RFC3339)
	}
	return schema
}
