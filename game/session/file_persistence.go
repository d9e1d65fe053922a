package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/seqboard/sequence-server/game/service"
)

// FilePersistence implements Persistence with one JSON document per game.
type FilePersistence struct {
	gamesDir string
}

// NewFilePersistence creates a file-backed store rooted at gamesDir.
func NewFilePersistence(gamesDir string) (*FilePersistence, error) {
	if err := os.MkdirAll(gamesDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create games directory: %w", err)
	}

	return &FilePersistence{gamesDir: gamesDir}, nil
}

// Save writes the session's game record to its JSON file.
func (fp *FilePersistence) Save(session *service.Session) error {
	if session == nil || session.Game == nil {
		return fmt.Errorf("session cannot be nil")
	}

	data := PersistedGameData{
		ID:             session.Game.ID,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		Game:           session.Game,
	}

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal game data: %w", err)
	}

	if err := os.WriteFile(fp.getFilePath(session.Game.ID), jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write game file: %w", err)
	}

	return nil
}

// Load reads a game document back into a session.
func (fp *FilePersistence) Load(id string) (*service.Session, error) {
	filePath := fp.getFilePath(id)

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, service.ErrGameNotFound
	}

	jsonData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read game file: %w", err)
	}

	var data PersistedGameData
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game data: %w", err)
	}
	if data.Game == nil {
		return nil, fmt.Errorf("game file %s has no game record", filePath)
	}

	return &service.Session{
		Game:           data.Game,
		CreatedAt:      data.CreatedAt,
		LastAccessedAt: data.LastAccessedAt,
	}, nil
}

// Delete removes a game's file.
func (fp *FilePersistence) Delete(id string) error {
	if !fp.Exists(id) {
		return service.ErrGameNotFound
	}

	if err := os.Remove(fp.getFilePath(id)); err != nil {
		return fmt.Errorf("failed to remove game file: %w", err)
	}
	return nil
}

// ListAll returns the IDs of every persisted game.
func (fp *FilePersistence) ListAll() ([]string, error) {
	entries, err := os.ReadDir(fp.gamesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read games directory: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if name := entry.Name(); strings.HasSuffix(name, ".json") {
			ids = append(ids, strings.TrimSuffix(name, ".json"))
		}
	}
	return ids, nil
}

// Exists checks whether a game file is on disk.
func (fp *FilePersistence) Exists(id string) bool {
	_, err := os.Stat(fp.getFilePath(id))
	return err == nil
}

func (fp *FilePersistence) getFilePath(id string) string {
	return filepath.Join(fp.gamesDir, fmt.Sprintf("%s.json", id))
}
