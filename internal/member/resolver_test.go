package member

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/valkey-io/valkey-go"

	apperrors "github.com/kapu/guild-jobs-bot/pkg/errors"
)

type stubFetcher struct {
	name  string
	err   error
	calls int
}

func (f *stubFetcher) FetchDisplayName(ctx context.Context, guildID, userID string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.name, nil
}

func newTestClient(t *testing.T) valkey.Client {
	t.Helper()

	mini := miniredis.RunT(t)
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress:       []string{mini.Addr()},
		DisableCache:      true,
		ForceSingleClient: true,
	})
	if err != nil {
		t.Fatalf("create valkey client failed: %v", err)
	}
	t.Cleanup(client.Close)
	return client
}

func TestDisplayName_CacheMissThenHit(t *testing.T) {
	fetch := &stubFetcher{name: "Kérillan"}
	resolver := NewResolver(fetch, newTestClient(t), time.Minute, slog.Default())
	ctx := context.Background()

	name, err := resolver.DisplayName(ctx, "g1", "u1")
	if err != nil {
		t.Fatal(err)
	}
	if name != "Kérillan" {
		t.Errorf("name = %q", name)
	}
	if fetch.calls != 1 {
		t.Fatalf("expected 1 fetch, got %d", fetch.calls)
	}

	// Second resolution is served from cache.
	name, err = resolver.DisplayName(ctx, "g1", "u1")
	if err != nil {
		t.Fatal(err)
	}
	if name != "Kérillan" {
		t.Errorf("cached name = %q", name)
	}
	if fetch.calls != 1 {
		t.Errorf("expected cache hit, fetch called %d times", fetch.calls)
	}
}

func TestDisplayName_DistinctUsers(t *testing.T) {
	fetch := &stubFetcher{name: "Momo"}
	resolver := NewResolver(fetch, newTestClient(t), time.Minute, slog.Default())
	ctx := context.Background()

	if _, err := resolver.DisplayName(ctx, "g1", "u1"); err != nil {
		t.Fatal(err)
	}
	if _, err := resolver.DisplayName(ctx, "g1", "u2"); err != nil {
		t.Fatal(err)
	}
	if fetch.calls != 2 {
		t.Errorf("distinct users must each hit the fetcher, got %d calls", fetch.calls)
	}
}

func TestDisplayName_NilClient(t *testing.T) {
	fetch := &stubFetcher{name: "Momo"}
	resolver := NewResolver(fetch, nil, time.Minute, slog.Default())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		name, err := resolver.DisplayName(ctx, "g1", "u1")
		if err != nil {
			t.Fatal(err)
		}
		if name != "Momo" {
			t.Errorf("name = %q", name)
		}
	}
	if fetch.calls != 2 {
		t.Errorf("cache disabled: expected 2 fetches, got %d", fetch.calls)
	}
}

func TestDisplayName_FetchFailure(t *testing.T) {
	fetch := &stubFetcher{err: errors.New("member left")}
	resolver := NewResolver(fetch, newTestClient(t), time.Minute, slog.Default())

	_, err := resolver.DisplayName(context.Background(), "g1", "u1")
	if err == nil {
		t.Fatal("expected error")
	}
	var resErr apperrors.ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("expected ResolutionError, got %T: %v", err, err)
	}
	if resErr.ID != "u1" {
		t.Errorf("ResolutionError.ID = %q, want u1", resErr.ID)
	}

	// The failure is not cached.
	fetch.err = nil
	fetch.name = "Revenant"
	name, err := resolver.DisplayName(context.Background(), "g1", "u1")
	if err != nil {
		t.Fatal(err)
	}
	if name != "Revenant" {
		t.Errorf("name after recovery = %q", name)
	}
}
