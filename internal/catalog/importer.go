package catalog

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"reelgrip/internal/domain"
	"reelgrip/internal/eventbus"
)

// importBatch is how many movies are written per transaction
const importBatch = 500

// noGenres is what MovieLens writes for a movie without genres
const noGenres = "(no genres listed)"

var titleYear = regexp.MustCompile(`^(.*?)\s*\((\d{4})\)\s*$`)

// ImportMovieLensCSV reads a MovieLens movies.csv (movieId,title,genres).
// The release year is taken from the "(YYYY)" suffix of the title; the
// date is set to January 1st of that year.
func ImportMovieLensCSV(r io.Reader) ([]domain.MovieDetail, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) < 3 || !strings.EqualFold(strings.TrimPrefix(header[0], "\ufeff"), "movieId") {
		return nil, fmt.Errorf("unexpected header %v", header)
	}

	var movies []domain.MovieDetail
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if len(record) < 3 {
			continue
		}

		id, err := strconv.Atoi(strings.TrimSpace(record[0]))
		if err != nil || id <= 0 {
			continue
		}

		title := strings.TrimSpace(record[1])
		var date string
		if m := titleYear.FindStringSubmatch(title); m != nil {
			title = m[1]
			date = m[2] + "-01-01"
		}

		var genres []domain.Genre
		if g := strings.TrimSpace(record[2]); g != "" && g != noGenres {
			for _, name := range strings.Split(g, "|") {
				genres = append(genres, domain.Genre{Name: name})
			}
		}

		movies = append(movies, domain.MovieDetail{
			MovieSummary: domain.MovieSummary{ID: id, Title: title, ReleaseDate: date},
			Genres:       genres,
		})
	}
	return movies, nil
}

// seedMovie is the TMDB movie document accepted by the JSON and YAML importers
type seedMovie struct {
	ID          int     `json:"id" yaml:"id"`
	Title       string  `json:"title" yaml:"title"`
	ReleaseDate string  `json:"release_date" yaml:"release_date"`
	VoteAverage float64 `json:"vote_average" yaml:"vote_average"`
	VoteCount   int     `json:"vote_count" yaml:"vote_count"`
	Popularity  float64 `json:"popularity" yaml:"popularity"`
	PosterPath  string  `json:"poster_path" yaml:"poster_path"`
	Overview    string  `json:"overview" yaml:"overview"`
	Tagline     string  `json:"tagline" yaml:"tagline"`
	Runtime     int     `json:"runtime" yaml:"runtime"`
	Status      string  `json:"status" yaml:"status"`
	Homepage    string  `json:"homepage" yaml:"homepage"`

	Genres []struct {
		ID   int    `json:"id" yaml:"id"`
		Name string `json:"name" yaml:"name"`
	} `json:"genres" yaml:"genres"`

	ProductionCompanies []struct {
		ID            int    `json:"id" yaml:"id"`
		Name          string `json:"name" yaml:"name"`
		OriginCountry string `json:"origin_country" yaml:"origin_country"`
	} `json:"production_companies" yaml:"production_companies"`

	SpokenLanguages []struct {
		ISO639      string `json:"iso_639_1" yaml:"iso_639_1"`
		Name        string `json:"name" yaml:"name"`
		EnglishName string `json:"english_name" yaml:"english_name"`
	} `json:"spoken_languages" yaml:"spoken_languages"`
}

// seedPage is a TMDB list response
type seedPage struct {
	Results []seedMovie `json:"results" yaml:"results"`
}

// ImportJSON reads either an array of TMDB movies or a TMDB list response
func ImportJSON(r io.Reader) ([]domain.MovieDetail, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	var seeds []seedMovie
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		err = json.Unmarshal(trimmed, &seeds)
	} else {
		var page seedPage
		err = json.Unmarshal(trimmed, &page)
		seeds = page.Results
	}
	if err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return convertSeeds(seeds)
}

// ImportYAML reads the same documents as ImportJSON written as YAML
func ImportYAML(r io.Reader) ([]domain.MovieDetail, error) {
	var node yaml.Node
	if err := yaml.NewDecoder(r).Decode(&node); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode yaml: %w", err)
	}

	var seeds []seedMovie
	root := &node
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	var err error
	if root.Kind == yaml.SequenceNode {
		err = root.Decode(&seeds)
	} else {
		var page seedPage
		err = root.Decode(&page)
		seeds = page.Results
	}
	if err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return convertSeeds(seeds)
}

func convertSeeds(seeds []seedMovie) ([]domain.MovieDetail, error) {
	movies := make([]domain.MovieDetail, 0, len(seeds))
	for i, s := range seeds {
		if s.ID <= 0 {
			return nil, fmt.Errorf("movie #%d: missing id", i+1)
		}
		if strings.TrimSpace(s.Title) == "" {
			return nil, fmt.Errorf("movie %d: missing title", s.ID)
		}

		d := domain.MovieDetail{
			MovieSummary: domain.MovieSummary{
				ID:          s.ID,
				Title:       s.Title,
				ReleaseDate: s.ReleaseDate,
				VoteAverage: s.VoteAverage,
				VoteCount:   s.VoteCount,
				Popularity:  s.Popularity,
				PosterPath:  s.PosterPath,
			},
			Overview: s.Overview,
			Tagline:  s.Tagline,
			Runtime:  s.Runtime,
			Status:   s.Status,
			Homepage: s.Homepage,
		}
		for _, g := range s.Genres {
			d.Genres = append(d.Genres, domain.Genre{ID: g.ID, Name: g.Name})
		}
		for _, c := range s.ProductionCompanies {
			d.ProductionCompanies = append(d.ProductionCompanies, domain.ProductionCompany{
				ID: c.ID, Name: c.Name, OriginCountry: c.OriginCountry,
			})
		}
		for _, l := range s.SpokenLanguages {
			name := l.EnglishName
			if name == "" {
				name = l.Name
			}
			d.SpokenLanguages = append(d.SpokenLanguages, domain.SpokenLanguage{ISO639: l.ISO639, Name: name})
		}
		movies = append(movies, d)
	}
	return movies, nil
}

// ImportFile loads path into store, choosing the reader by extension
// (.csv, .json, .yaml, .yml). When bus is non-nil a CatalogImportedEvent
// is published on success.
func ImportFile(ctx context.Context, store Store, path string, bus eventbus.EventBus) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("import %s: %w", path, err)
	}
	defer f.Close()

	var movies []domain.MovieDetail
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		movies, err = ImportMovieLensCSV(f)
	case ".json":
		movies, err = ImportJSON(f)
	case ".yaml", ".yml":
		movies, err = ImportYAML(f)
	default:
		return 0, fmt.Errorf("import %s: unsupported file type %q", path, ext)
	}
	if err != nil {
		return 0, fmt.Errorf("import %s: %w", path, err)
	}

	for start := 0; start < len(movies); start += importBatch {
		end := min(start+importBatch, len(movies))
		if err := store.UpsertMovies(ctx, movies[start:end]); err != nil {
			return start, fmt.Errorf("import %s: %w", path, err)
		}
	}

	if bus != nil {
		bus.Publish(eventbus.CatalogImportedEvent{Source: path, Count: len(movies)})
	}
	return len(movies), nil
}
