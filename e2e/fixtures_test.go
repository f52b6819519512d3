//go:build e2e && unix

package main

import (
	"fmt"
	"os"
	"path/filepath"
)

// seedCatalog is a small TMDB-shaped catalog
const seedCatalog = `[
  {
    "id": 949,
    "title": "Heat",
    "release_date": "1995-12-15",
    "vote_average": 7.9,
    "vote_count": 7000,
    "popularity": 40.2,
    "overview": "Obsessive master thief Neil McCauley leads a top-notch crew on various daring heists.",
    "genres": [{"id": 28, "name": "Action"}, {"id": 80, "name": "Crime"}],
    "production_companies": [{"id": 508, "name": "Regency Enterprises", "origin_country": "US"}],
    "spoken_languages": [{"iso_639_1": "en", "name": "English", "english_name": "English"}]
  },
  {
    "id": 348,
    "title": "Alien",
    "release_date": "1979-05-25",
    "vote_average": 8.1,
    "vote_count": 14000,
    "popularity": 55.1,
    "tagline": "In space no one can hear you scream.",
    "overview": "During its return to the earth, commercial spaceship Nostromo intercepts a distress signal.",
    "genres": [{"id": 27, "name": "Horror"}, {"id": 878, "name": "Science Fiction"}]
  },
  {
    "id": 679,
    "title": "Aliens",
    "release_date": "1986-07-18",
    "vote_average": 7.9,
    "vote_count": 9000,
    "popularity": 60.4,
    "tagline": "This time it's war.",
    "overview": "Ripley returns to LV-426 with a unit of colonial marines.",
    "genres": [{"id": 28, "name": "Action"}, {"id": 878, "name": "Science Fiction"}]
  }
]
`

// CreateTestWorkspace creates a temporary directory for config, state and seeds
func (tf *TUITestFramework) CreateTestWorkspace() (string, error) {
	tmpDir := tf.t.TempDir()
	tf.workspace = tmpDir
	return tmpDir, nil
}

// WriteSeed writes the seed catalog into the workspace and returns its path
func (tf *TUITestFramework) WriteSeed() (string, error) {
	if tf.workspace == "" {
		return "", fmt.Errorf("workspace not created")
	}
	path := filepath.Join(tf.workspace, "seed.json")
	if err := os.WriteFile(path, []byte(seedCatalog), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// StartSeeded starts the app on an in-memory catalog loaded from the seed
func (tf *TUITestFramework) StartSeeded(args ...string) error {
	if _, err := tf.CreateTestWorkspace(); err != nil {
		return err
	}
	seed, err := tf.WriteSeed()
	if err != nil {
		return err
	}
	return tf.StartApp(append([]string{"--memory", "--import", seed}, args...)...)
}
