package places

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"parks/app"
)

// cacheSchemaVersion is the current details cache schema version.
// Bumping it wipes the cache on the next open.
const cacheSchemaVersion = "v1"

// Cache keeps fetched place details in SQLite so reopening a popup does not
// cost another details call.
type Cache struct {
	db  *sql.DB
	ttl time.Duration
	mu  sync.Mutex
	now func() time.Time
}

// OpenCache opens (or creates) the cache database at path.
func OpenCache(path string, ttl time.Duration) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("places cache dir: %w", err)
	}
	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=10000")
	if err != nil {
		return nil, fmt.Errorf("places cache open: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	c := &Cache{db: db, ttl: ttl, now: time.Now}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

func (c *Cache) migrate() error {
	var storedVer string
	_ = c.db.QueryRow(`SELECT version FROM schema_version LIMIT 1`).Scan(&storedVer)
	if storedVer != cacheSchemaVersion {
		if storedVer != "" {
			app.Log("places", "details cache version mismatch (have %q, want %q), wiping", storedVer, cacheSchemaVersion)
		}
		for _, stmt := range []string{
			`DROP TABLE IF EXISTS place_details`,
			`DROP TABLE IF EXISTS schema_version`,
		} {
			if _, err := c.db.Exec(stmt); err != nil {
				return fmt.Errorf("places cache wipe: %w", err)
			}
		}
	}

	_, err := c.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS place_details (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			url        TEXT,
			icon       TEXT,
			vicinity   TEXT,
			phone      TEXT,
			rating     REAL,
			website    TEXT,
			fetched_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_place_details_fetched ON place_details(fetched_at);
	`)
	if err != nil {
		return fmt.Errorf("places cache schema: %w", err)
	}

	if storedVer != cacheSchemaVersion {
		if _, err := c.db.Exec(`INSERT INTO schema_version (version) VALUES (?)`, cacheSchemaVersion); err != nil {
			return fmt.Errorf("places cache version insert: %w", err)
		}
	}
	return nil
}

// Get returns the cached detail for id when present and not expired.
func (c *Cache) Get(ctx context.Context, id string) (Detail, bool, error) {
	var (
		d         Detail
		url, icon sql.NullString
		vicinity  sql.NullString
		phone     sql.NullString
		website   sql.NullString
		rating    sql.NullFloat64
		fetchedAt int64
	)
	err := c.db.QueryRowContext(ctx, `
		SELECT id, name, url, icon, vicinity, phone, rating, website, fetched_at
		FROM place_details WHERE id = ?`, id).
		Scan(&d.ID, &d.Name, &url, &icon, &vicinity, &phone, &rating, &website, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Detail{}, false, nil
	}
	if err != nil {
		return Detail{}, false, fmt.Errorf("places cache get %s: %w", id, err)
	}
	if c.ttl > 0 && c.now().Sub(time.Unix(fetchedAt, 0)) > c.ttl {
		return Detail{}, false, nil
	}
	d.URL, d.Icon, d.Vicinity = url.String, icon.String, vicinity.String
	d.Phone, d.Website = phone.String, website.String
	if rating.Valid {
		r := rating.Float64
		d.Rating = &r
	}
	return d, true, nil
}

// Put upserts d.
func (c *Cache) Put(ctx context.Context, d Detail) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var rating sql.NullFloat64
	if d.Rating != nil {
		rating = sql.NullFloat64{Float64: *d.Rating, Valid: true}
	}
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO place_details (id, name, url, icon, vicinity, phone, rating, website, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name=excluded.name, url=excluded.url, icon=excluded.icon,
			vicinity=excluded.vicinity, phone=excluded.phone, rating=excluded.rating,
			website=excluded.website, fetched_at=excluded.fetched_at`,
		d.ID, d.Name, d.URL, d.Icon, d.Vicinity, d.Phone, rating, d.Website, c.now().Unix())
	if err != nil {
		return fmt.Errorf("places cache put %s: %w", d.ID, err)
	}
	return nil
}

// Prune deletes expired rows and returns how many were removed.
func (c *Cache) Prune(ctx context.Context) (int64, error) {
	if c.ttl <= 0 {
		return 0, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	res, err := c.db.ExecContext(ctx, `DELETE FROM place_details WHERE fetched_at < ?`,
		c.now().Add(-c.ttl).Unix())
	if err != nil {
		return 0, fmt.Errorf("places cache prune: %w", err)
	}
	return res.RowsAffected()
}

// Stats reports the number of cached rows for the status page.
func (c *Cache) Stats() (string, error) {
	var n int
	if err := c.db.QueryRow(`SELECT COUNT(*) FROM place_details`).Scan(&n); err != nil {
		return "", fmt.Errorf("places cache: %w", err)
	}
	return fmt.Sprintf("%d cached details", n), nil
}

// Close closes the database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// CachedService serves Details from a Cache and falls through to the
// wrapped Service on a miss. All other calls pass straight through.
type CachedService struct {
	Service
	cache *Cache
}

// WithCache wraps svc with cache.
func WithCache(svc Service, cache *Cache) *CachedService {
	return &CachedService{Service: svc, cache: cache}
}

func (s *CachedService) Details(ctx context.Context, placeID string) (Detail, error) {
	d, ok, err := s.cache.Get(ctx, placeID)
	if err != nil {
		app.Log("places", "%v", err)
	}
	if ok {
		return d, nil
	}
	d, err = s.Service.Details(ctx, placeID)
	if err != nil {
		return Detail{}, err
	}
	// keyed by the requested id; Google may answer with a newer one
	stored := d
	stored.ID = placeID
	if err := s.cache.Put(ctx, stored); err != nil {
		app.Log("places", "%v", err)
	}
	return d, nil
}

// StartPruning removes expired rows once per interval until ctx is done.
func (c *Cache) StartPruning(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := c.Prune(ctx)
				if err != nil {
					app.Log("places", "%v", err)
					continue
				}
				if n > 0 {
					app.Log("places", "pruned %d expired details", n)
				}
			}
		}
	}()
}
