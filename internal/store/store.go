// Package store provides SQLite persistence for curated records and
// their video ideas.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/kiwifruitpeter/curator/internal/model"
)

// Store handles SQLite persistence. NOT an interface - concrete type.
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open creates a new Store with the given database path.
// Creates tables if they don't exist.
// Uses WAL mode for better concurrent read performance (file-based DBs only).
func Open(dbPath string) (*Store, error) {
	connStr := dbPath
	if dbPath == ":memory:" {
		// For in-memory databases, use shared cache mode so all connections
		// in the pool see the same database
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &Store{db: db}

	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return s, nil
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS records (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		summary TEXT,
		source TEXT,
		source_url TEXT,
		author TEXT,
		published_at DATETIME,
		tags TEXT,
		tag_relevance_score INTEGER DEFAULT 0,
		relevance_score REAL DEFAULT 0,
		quality_score REAL DEFAULT 0,
		seo_score REAL DEFAULT 0,
		interest_score REAL DEFAULT 0,
		composite_score REAL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_records_published ON records(published_at DESC);
	CREATE INDEX IF NOT EXISTS idx_records_composite ON records(composite_score DESC);
	CREATE INDEX IF NOT EXISTS idx_records_source_url ON records(source_url);

	CREATE TABLE IF NOT EXISTS artifacts (
		id TEXT PRIMARY KEY,
		article_id TEXT NOT NULL,
		video_title TEXT NOT NULL,
		video_description TEXT,
		content_outline TEXT,
		target_duration_minutes INTEGER DEFAULT 0,
		suggested_thumbnail_prompt TEXT,
		difficulty_level TEXT,
		estimated_engagement_score REAL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (article_id) REFERENCES records(id)
	);

	CREATE INDEX IF NOT EXISTS idx_artifacts_article ON artifacts(article_id);
	CREATE INDEX IF NOT EXISTS idx_artifacts_created ON artifacts(created_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRecords saves or updates records, returns count of new rows.
func (s *Store) SaveRecords(records []model.Record) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO records (id, title, summary, source, source_url, author, published_at,
			tags, tag_relevance_score, relevance_score, quality_score, seo_score,
			interest_score, composite_score)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			summary = excluded.summary,
			tags = excluded.tags,
			tag_relevance_score = excluded.tag_relevance_score,
			relevance_score = excluded.relevance_score,
			quality_score = excluded.quality_score,
			seo_score = excluded.seo_score,
			interest_score = excluded.interest_score,
			composite_score = excluded.composite_score
	`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	newCount := 0
	for _, rec := range records {
		tags, err := json.Marshal(rec.Tags)
		if err != nil {
			tags = []byte("[]")
		}
		result, err := stmt.Exec(
			rec.ID, rec.Title, rec.Summary, rec.Source, rec.SourceURL, rec.Author,
			rec.Published, string(tags), rec.TagRelevanceScore, rec.RelevanceScore,
			rec.QualityScore, rec.SEOScore, rec.InterestScore, rec.CompositeScore,
		)
		if err != nil {
			continue
		}
		rows, _ := result.RowsAffected()
		if rows > 0 {
			newCount++
		}
	}

	return newCount, tx.Commit()
}

// GetRecords returns stored records ordered by composite score.
func (s *Store) GetRecords(limit int) ([]model.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, title, summary, source, source_url, author, published_at,
			tags, tag_relevance_score, relevance_score, quality_score, seo_score,
			interest_score, composite_score
		FROM records
		ORDER BY composite_score DESC, published_at DESC
	`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.Record
	for rows.Next() {
		var rec model.Record
		var published sql.NullTime
		var tags string
		if err := rows.Scan(
			&rec.ID, &rec.Title, &rec.Summary, &rec.Source, &rec.SourceURL, &rec.Author,
			&published, &tags, &rec.TagRelevanceScore, &rec.RelevanceScore,
			&rec.QualityScore, &rec.SEOScore, &rec.InterestScore, &rec.CompositeScore,
		); err != nil {
			return nil, err
		}
		if published.Valid {
			rec.Published = published.Time
		}
		if tags != "" {
			_ = json.Unmarshal([]byte(tags), &rec.Tags)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// SaveArtifacts saves video ideas, returns count of new rows.
func (s *Store) SaveArtifacts(artifacts []model.Artifact) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO artifacts (id, article_id, video_title, video_description,
			content_outline, target_duration_minutes, suggested_thumbnail_prompt,
			difficulty_level, estimated_engagement_score)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	newCount := 0
	for _, a := range artifacts {
		outline, err := json.Marshal(a.ContentOutline)
		if err != nil {
			outline = []byte("[]")
		}
		result, err := stmt.Exec(
			a.ID, a.ArticleID, a.VideoTitle, a.VideoDescription, string(outline),
			a.TargetDurationMinutes, a.SuggestedThumbnailPrompt,
			a.DifficultyLevel, a.EstimatedEngagementScore,
		)
		if err != nil {
			continue
		}
		rows, _ := result.RowsAffected()
		if rows > 0 {
			newCount++
		}
	}

	return newCount, tx.Commit()
}

// GetArtifacts returns the video ideas for one record, newest first.
func (s *Store) GetArtifacts(articleID string) ([]model.Artifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, article_id, video_title, video_description, content_outline,
			target_duration_minutes, suggested_thumbnail_prompt, difficulty_level,
			estimated_engagement_score
		FROM artifacts
		WHERE article_id = ?
		ORDER BY created_at DESC
	`, articleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanArtifacts(rows)
}

// AllArtifacts returns every stored video idea, newest first.
func (s *Store) AllArtifacts(limit int) ([]model.Artifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, article_id, video_title, video_description, content_outline,
			target_duration_minutes, suggested_thumbnail_prompt, difficulty_level,
			estimated_engagement_score
		FROM artifacts
		ORDER BY created_at DESC
	`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanArtifacts(rows)
}

func scanArtifacts(rows *sql.Rows) ([]model.Artifact, error) {
	var artifacts []model.Artifact
	for rows.Next() {
		var a model.Artifact
		var outline string
		if err := rows.Scan(
			&a.ID, &a.ArticleID, &a.VideoTitle, &a.VideoDescription, &outline,
			&a.TargetDurationMinutes, &a.SuggestedThumbnailPrompt,
			&a.DifficultyLevel, &a.EstimatedEngagementScore,
		); err != nil {
			return nil, err
		}
		if outline != "" {
			_ = json.Unmarshal([]byte(outline), &a.ContentOutline)
		}
		artifacts = append(artifacts, a)
	}
	return artifacts, rows.Err()
}

// RecordCount returns the number of stored records.
func (s *Store) RecordCount() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM records").Scan(&n)
	return n, err
}

// PruneOlderThan removes records (and their artifacts) published before
// the cutoff. Returns the number of records removed.
func (s *Store) PruneOlderThan(cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		DELETE FROM artifacts WHERE article_id IN
			(SELECT id FROM records WHERE published_at < ?)
	`, cutoff); err != nil {
		return 0, err
	}

	result, err := tx.Exec("DELETE FROM records WHERE published_at < ?", cutoff)
	if err != nil {
		return 0, err
	}
	removed, _ := result.RowsAffected()

	return int(removed), tx.Commit()
}
