package places

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"
)

func openTestCache(t *testing.T, ttl time.Duration) (*Cache, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "places.db")
	c, err := OpenCache(path, ttl)
	if err != nil {
		t.Fatalf("OpenCache: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c, path
}

func TestCachePutGet(t *testing.T) {
	c, _ := openTestCache(t, time.Hour)
	ctx := context.Background()

	rating := 4.5
	want := Detail{ID: "p1", Name: "Battery Park", URL: "https://maps.google.com/?cid=1",
		Phone: "(212) 344-3491", Rating: &rating, Website: "https://thebattery.org/"}
	if err := c.Put(ctx, want); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := c.Get(ctx, "p1")
	if err != nil || !ok {
		t.Fatalf("Get = %v, %v", ok, err)
	}
	if got.Name != want.Name || got.Phone != want.Phone || got.Rating == nil || *got.Rating != 4.5 {
		t.Errorf("Get = %+v", got)
	}

	if err := c.Put(ctx, Detail{ID: "p2", Name: "No Rating"}); err != nil {
		t.Fatal(err)
	}
	got, ok, _ = c.Get(ctx, "p2")
	if !ok || got.Rating != nil {
		t.Errorf("absent rating came back as %v", got.Rating)
	}

	if _, ok, _ := c.Get(ctx, "missing"); ok {
		t.Error("Get(missing) reported a hit")
	}

	stats, err := c.Stats()
	if err != nil || stats != "2 cached details" {
		t.Errorf("Stats = %q, %v", stats, err)
	}
}

func TestCacheExpiry(t *testing.T) {
	c, _ := openTestCache(t, time.Hour)
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	if err := c.Put(ctx, Detail{ID: "p1", Name: "Old"}); err != nil {
		t.Fatal(err)
	}
	now = now.Add(30 * time.Minute)
	if _, ok, _ := c.Get(ctx, "p1"); !ok {
		t.Error("fresh entry missed")
	}
	now = now.Add(time.Hour)
	if _, ok, _ := c.Get(ctx, "p1"); ok {
		t.Error("expired entry served")
	}

	n, err := c.Prune(ctx)
	if err != nil || n != 1 {
		t.Errorf("Prune = %d, %v, want 1", n, err)
	}
}

func TestCacheVersionWipe(t *testing.T) {
	c, path := openTestCache(t, time.Hour)
	if err := c.Put(context.Background(), Detail{ID: "p1", Name: "Kept?"}); err != nil {
		t.Fatal(err)
	}
	c.Close()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`UPDATE schema_version SET version = 'v0'`); err != nil {
		t.Fatal(err)
	}
	db.Close()

	c2, err := OpenCache(path, time.Hour)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer c2.Close()
	if _, ok, _ := c2.Get(context.Background(), "p1"); ok {
		t.Error("rows survived a schema version change")
	}
}

// countingService answers Details and counts the calls.
type countingService struct {
	Service
	calls int
}

func (s *countingService) Details(ctx context.Context, id string) (Detail, error) {
	s.calls++
	if id == "gone" {
		return Detail{}, ErrNotFound
	}
	return Detail{ID: "new-" + id, Name: "Park " + id}, nil
}

func TestCachedService(t *testing.T) {
	c, _ := openTestCache(t, time.Hour)
	upstream := &countingService{}
	svc := WithCache(upstream, c)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		d, err := svc.Details(ctx, "p1")
		if err != nil {
			t.Fatalf("Details: %v", err)
		}
		if d.Name != "Park p1" {
			t.Errorf("Details = %+v", d)
		}
	}
	if upstream.calls != 1 {
		t.Errorf("upstream called %d times, want 1", upstream.calls)
	}

	if _, err := svc.Details(ctx, "gone"); err == nil {
		t.Error("expected upstream error to pass through")
	}
	if _, ok, _ := c.Get(ctx, "gone"); ok {
		t.Error("failure was cached")
	}
}
