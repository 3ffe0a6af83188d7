package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"kinoseat-cli/model"
)

const (
	filmCacheTTL   = 10 * time.Minute
	hallCacheTTL   = 72 * time.Hour
	maxRecentFilms = 8

	appDirName = "kinoseat-cli"
)

type cacheEnvelope[T any] struct {
	UpdatedAt time.Time `json:"updated_at"`
	Data      T         `json:"data"`
}

// RecentFilm is what the film picker surfaces at the top of the list.
type RecentFilm struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type filmHistory struct {
	Films []RecentFilm `json:"films"`
}

// LoadFilmCache returns the cached film catalog and whether it is still
// fresh. Stale data is still returned so the UI can render something
// while a refresh runs.
func LoadFilmCache() ([]model.Film, bool, error) {
	path, err := cachePath("films.json")
	if err != nil {
		return nil, false, err
	}
	cache, err := loadCache[[]model.Film](path)
	if err != nil {
		return nil, false, err
	}
	return cache.Data, time.Since(cache.UpdatedAt) <= filmCacheTTL, nil
}

func SaveFilmCache(films []model.Film) error {
	path, err := cachePath("films.json")
	if err != nil {
		return err
	}
	return saveCache(path, films)
}

// LoadHallCache returns cached hall details keyed by hall id. Hall
// layouts almost never change, hence the long TTL.
func LoadHallCache(hallID model.HallID) (model.HallDetails, bool, error) {
	path, err := cachePath(fmt.Sprintf("hall_%s.json", hallID))
	if err != nil {
		return model.HallDetails{}, false, err
	}
	cache, err := loadCache[model.HallDetails](path)
	if err != nil {
		return model.HallDetails{}, false, err
	}
	fresh := !cache.UpdatedAt.IsZero() && time.Since(cache.UpdatedAt) <= hallCacheTTL
	return cache.Data, fresh, nil
}

func SaveHallCache(details model.HallDetails) error {
	path, err := cachePath(fmt.Sprintf("hall_%s.json", details.Id))
	if err != nil {
		return err
	}
	return saveCache(path, details)
}

func LoadRecentFilms() ([]RecentFilm, error) {
	path, err := configPath("history.json")
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var history filmHistory
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, errors.New("invalid film history format")
	}
	return history.Films, nil
}

// RememberFilm moves the film to the front of the recents list, dropping
// duplicates and anything past the cap.
func RememberFilm(film model.Film) error {
	history, _ := LoadRecentFilms()
	next := []RecentFilm{{ID: string(film.Id), Title: film.Title}}

	for _, existing := range history {
		if existing.ID == string(film.Id) && existing.ID != "" {
			continue
		}
		if existing.Title != "" && strings.EqualFold(existing.Title, film.Title) {
			continue
		}
		next = append(next, existing)
		if len(next) >= maxRecentFilms {
			break
		}
	}

	return saveRecentFilms(next)
}

func loadCache[T any](path string) (cacheEnvelope[T], error) {
	var cache cacheEnvelope[T]
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cache, nil
		}
		return cache, err
	}
	if err := json.Unmarshal(data, &cache); err != nil {
		return cache, err
	}
	return cache, nil
}

func saveCache[T any](path string, data T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	cache := cacheEnvelope[T]{
		UpdatedAt: time.Now(),
		Data:      data,
	}
	payload, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o644)
}

func saveRecentFilms(films []RecentFilm) error {
	path, err := configPath("history.json")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	history := filmHistory{Films: films}
	payload, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o644)
}

func configPath(name string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDirName, name), nil
}

func cachePath(name string) (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDirName, name), nil
}
