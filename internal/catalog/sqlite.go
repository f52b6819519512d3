package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"reelgrip/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS movies (
	id           INTEGER PRIMARY KEY,
	title        TEXT    NOT NULL,
	title_fold   TEXT    NOT NULL,
	release_date TEXT    NOT NULL DEFAULT '',
	vote_average REAL    NOT NULL DEFAULT 0,
	vote_count   INTEGER NOT NULL DEFAULT 0,
	popularity   REAL    NOT NULL DEFAULT 0,
	poster_path  TEXT    NOT NULL DEFAULT '',
	overview     TEXT    NOT NULL DEFAULT '',
	tagline      TEXT    NOT NULL DEFAULT '',
	runtime      INTEGER NOT NULL DEFAULT 0,
	status       TEXT    NOT NULL DEFAULT '',
	homepage     TEXT    NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_movies_popularity ON movies(popularity DESC);
CREATE INDEX IF NOT EXISTS idx_movies_release ON movies(release_date);

CREATE TABLE IF NOT EXISTS genres (
	id        INTEGER PRIMARY KEY,
	name      TEXT NOT NULL,
	name_fold TEXT NOT NULL UNIQUE
);
CREATE TABLE IF NOT EXISTS movie_genres (
	movie_id INTEGER NOT NULL REFERENCES movies(id) ON DELETE CASCADE,
	genre_id INTEGER NOT NULL REFERENCES genres(id),
	position INTEGER NOT NULL,
	PRIMARY KEY (movie_id, genre_id)
);

CREATE TABLE IF NOT EXISTS companies (
	id   INTEGER PRIMARY KEY,
	name TEXT NOT NULL UNIQUE
);
CREATE TABLE IF NOT EXISTS movie_companies (
	movie_id       INTEGER NOT NULL REFERENCES movies(id) ON DELETE CASCADE,
	company_id     INTEGER NOT NULL REFERENCES companies(id),
	origin_country TEXT    NOT NULL DEFAULT '',
	position       INTEGER NOT NULL,
	PRIMARY KEY (movie_id, company_id)
);

CREATE TABLE IF NOT EXISTS movie_languages (
	movie_id  INTEGER NOT NULL REFERENCES movies(id) ON DELETE CASCADE,
	iso_639_1 TEXT    NOT NULL,
	name      TEXT    NOT NULL,
	position  INTEGER NOT NULL,
	PRIMARY KEY (movie_id, iso_639_1)
);
`

// schemaVersion is stored in PRAGMA user_version. Titles and genre names
// are matched through *_fold columns written with foldCase, since SQLite's
// lower() and NOCASE only fold ASCII.
const schemaVersion = 2

const summaryColumns = `m.id, m.title, m.release_date, m.vote_average, m.vote_count, m.popularity, m.poster_path`

// SQLiteStore is a Store backed by an SQLite database
type SQLiteStore struct {
	db    *sql.DB
	rules Rules
}

// OpenSQLite opens (creating if needed) the catalog database at path.
// ":memory:" opens a private in-memory database.
func OpenSQLite(path string, rules Rules) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("catalog: mkdir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open: %w", err)
	}
	if path == ":memory:" {
		// Every connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("catalog: %s: %w", p, err)
		}
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db, rules: rules}, nil
}

func migrate(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("catalog: schema version: %w", err)
	}
	switch {
	case version == schemaVersion:
		return nil
	case version > schemaVersion:
		return fmt.Errorf("catalog: schema version %d is newer than %d", version, schemaVersion)
	}

	var tables int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'movies'").Scan(&tables); err != nil {
		return fmt.Errorf("catalog: schema: %w", err)
	}
	if tables > 0 {
		return fmt.Errorf("catalog: database has schema version %d, want %d: remove it and import again", version, schemaVersion)
	}

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("catalog: schema: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("catalog: schema version: %w", err)
	}
	return nil
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ListMovies implements Store
func (s *SQLiteStore) ListMovies(ctx context.Context, filter domain.Filter, limit int) ([]domain.MovieSummary, error) {
	return s.querySummaries(ctx, "", filter, limit)
}

// SearchMovies implements Store
func (s *SQLiteStore) SearchMovies(ctx context.Context, query string, filter domain.Filter, limit int) ([]domain.MovieSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.ListMovies(ctx, filter, limit)
	}
	return s.querySummaries(ctx, query, filter, limit)
}

func (s *SQLiteStore) querySummaries(ctx context.Context, query string, filter domain.Filter, limit int) ([]domain.MovieSummary, error) {
	var where []string
	var args []any

	if query != "" {
		where = append(where, "instr(m.title_fold, ?) > 0")
		args = append(args, foldCase(query))
	}
	if filter.Genre != "" {
		where = append(where, `EXISTS (
			SELECT 1 FROM movie_genres mg JOIN genres g ON g.id = mg.genre_id
			WHERE mg.movie_id = m.id AND g.name_fold = ?)`)
		args = append(args, foldCase(filter.Genre))
	}
	if filter.Year != 0 {
		where = append(where, "substr(m.release_date, 1, 4) = ?")
		args = append(args, fmt.Sprintf("%04d", filter.Year))
	}

	var order string
	switch filter.Category {
	case domain.CategoryTopRated:
		where = append(where, "m.vote_count >= ?")
		args = append(args, s.rules.TopRatedMinVotes)
		order = "m.vote_average DESC, m.vote_count DESC, m.title"
	case domain.CategoryUpcoming:
		where = append(where, "m.release_date > ?")
		args = append(args, s.rules.today())
		order = "m.release_date ASC, m.title"
	case domain.CategoryNowPlaying:
		where = append(where, "m.release_date <= ?", "m.release_date >= ?")
		args = append(args, s.rules.today(), s.rules.nowPlayingFrom())
		order = "m.release_date DESC, m.title"
	default:
		order = "m.popularity DESC, m.title"
	}

	stmt := "SELECT " + summaryColumns + " FROM movies m"
	if len(where) > 0 {
		stmt += " WHERE " + strings.Join(where, " AND ")
	}
	stmt += " ORDER BY " + order + " LIMIT ?"
	if limit <= 0 {
		limit = -1
	}
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("catalog: list %s: %w", filter, err)
	}
	defer rows.Close()

	movies := []domain.MovieSummary{}
	for rows.Next() {
		var m domain.MovieSummary
		if err := rows.Scan(&m.ID, &m.Title, &m.ReleaseDate, &m.VoteAverage, &m.VoteCount, &m.Popularity, &m.PosterPath); err != nil {
			return nil, fmt.Errorf("catalog: scan movie: %w", err)
		}
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: list %s: %w", filter, err)
	}
	return movies, nil
}

// GetMovie implements Store
func (s *SQLiteStore) GetMovie(ctx context.Context, id int) (*domain.MovieDetail, error) {
	var d domain.MovieDetail
	err := s.db.QueryRowContext(ctx, `SELECT `+summaryColumns+`,
		m.overview, m.tagline, m.runtime, m.status, m.homepage
		FROM movies m WHERE m.id = ?`, id).Scan(
		&d.ID, &d.Title, &d.ReleaseDate, &d.VoteAverage, &d.VoteCount, &d.Popularity, &d.PosterPath,
		&d.Overview, &d.Tagline, &d.Runtime, &d.Status, &d.Homepage,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("movie %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: get movie %d: %w", id, err)
	}

	if d.Genres, err = s.movieGenres(ctx, id); err != nil {
		return nil, err
	}
	if d.ProductionCompanies, err = s.movieCompanies(ctx, id); err != nil {
		return nil, err
	}
	if d.SpokenLanguages, err = s.movieLanguages(ctx, id); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *SQLiteStore) movieGenres(ctx context.Context, id int) ([]domain.Genre, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT g.id, g.name FROM movie_genres mg
		JOIN genres g ON g.id = mg.genre_id
		WHERE mg.movie_id = ? ORDER BY mg.position`, id)
	if err != nil {
		return nil, fmt.Errorf("catalog: genres of %d: %w", id, err)
	}
	defer rows.Close()

	genres := []domain.Genre{}
	for rows.Next() {
		var g domain.Genre
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, fmt.Errorf("catalog: scan genre: %w", err)
		}
		genres = append(genres, g)
	}
	return genres, rows.Err()
}

func (s *SQLiteStore) movieCompanies(ctx context.Context, id int) ([]domain.ProductionCompany, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT c.id, c.name, mc.origin_country FROM movie_companies mc
		JOIN companies c ON c.id = mc.company_id
		WHERE mc.movie_id = ? ORDER BY mc.position`, id)
	if err != nil {
		return nil, fmt.Errorf("catalog: companies of %d: %w", id, err)
	}
	defer rows.Close()

	companies := []domain.ProductionCompany{}
	for rows.Next() {
		var c domain.ProductionCompany
		if err := rows.Scan(&c.ID, &c.Name, &c.OriginCountry); err != nil {
			return nil, fmt.Errorf("catalog: scan company: %w", err)
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

func (s *SQLiteStore) movieLanguages(ctx context.Context, id int) ([]domain.SpokenLanguage, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT iso_639_1, name FROM movie_languages
		WHERE movie_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("catalog: languages of %d: %w", id, err)
	}
	defer rows.Close()

	languages := []domain.SpokenLanguage{}
	for rows.Next() {
		var l domain.SpokenLanguage
		if err := rows.Scan(&l.ISO639, &l.Name); err != nil {
			return nil, fmt.Errorf("catalog: scan language: %w", err)
		}
		languages = append(languages, l)
	}
	return languages, rows.Err()
}

// UpsertMovies implements Store. All movies are written in one transaction.
func (s *SQLiteStore) UpsertMovies(ctx context.Context, movies []domain.MovieDetail) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("catalog: begin: %w", err)
	}
	defer tx.Rollback()

	for i := range movies {
		if err := upsertMovie(ctx, tx, &movies[i]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("catalog: commit: %w", err)
	}
	return nil
}

func upsertMovie(ctx context.Context, tx *sql.Tx, movie *domain.MovieDetail) error {
	m := *movie
	normalizeDetail(&m)

	_, err := tx.ExecContext(ctx, `INSERT INTO movies
		(id, title, title_fold, release_date, vote_average, vote_count, popularity, poster_path,
		 overview, tagline, runtime, status, homepage)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			title_fold = excluded.title_fold,
			release_date = excluded.release_date,
			vote_average = excluded.vote_average,
			vote_count = excluded.vote_count,
			popularity = excluded.popularity,
			poster_path = excluded.poster_path,
			overview = excluded.overview,
			tagline = excluded.tagline,
			runtime = excluded.runtime,
			status = excluded.status,
			homepage = excluded.homepage`,
		m.ID, m.Title, foldCase(m.Title), m.ReleaseDate, m.VoteAverage, m.VoteCount, m.Popularity, m.PosterPath,
		m.Overview, m.Tagline, m.Runtime, m.Status, m.Homepage)
	if err != nil {
		return fmt.Errorf("catalog: upsert movie %d: %w", m.ID, err)
	}

	for _, table := range []string{"movie_genres", "movie_companies", "movie_languages"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE movie_id = ?", m.ID); err != nil {
			return fmt.Errorf("catalog: clear %s of %d: %w", table, m.ID, err)
		}
	}

	for pos, g := range m.Genres {
		var genreID int64
		err := tx.QueryRowContext(ctx, `INSERT INTO genres (name, name_fold) VALUES (?, ?)
			ON CONFLICT(name_fold) DO UPDATE SET name = name
			RETURNING id`, g.Name, foldCase(g.Name)).Scan(&genreID)
		if err != nil {
			return fmt.Errorf("catalog: genre %q: %w", g.Name, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO movie_genres (movie_id, genre_id, position)
			VALUES (?, ?, ?)`, m.ID, genreID, pos); err != nil {
			return fmt.Errorf("catalog: link genre %q: %w", g.Name, err)
		}
	}

	for pos, c := range m.ProductionCompanies {
		var companyID int64
		err := tx.QueryRowContext(ctx, `INSERT INTO companies (name) VALUES (?)
			ON CONFLICT(name) DO UPDATE SET name = name
			RETURNING id`, c.Name).Scan(&companyID)
		if err != nil {
			return fmt.Errorf("catalog: company %q: %w", c.Name, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO movie_companies (movie_id, company_id, origin_country, position)
			VALUES (?, ?, ?, ?)`, m.ID, companyID, c.OriginCountry, pos); err != nil {
			return fmt.Errorf("catalog: link company %q: %w", c.Name, err)
		}
	}

	for pos, l := range m.SpokenLanguages {
		if _, err := tx.ExecContext(ctx, `INSERT INTO movie_languages (movie_id, iso_639_1, name, position)
			VALUES (?, ?, ?, ?)`, m.ID, l.ISO639, l.Name, pos); err != nil {
			return fmt.Errorf("catalog: link language %q: %w", l.ISO639, err)
		}
	}
	return nil
}

// Count implements Store
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM movies").Scan(&n); err != nil {
		return 0, fmt.Errorf("catalog: count: %w", err)
	}
	return n, nil
}
