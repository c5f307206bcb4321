package middleware

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

const (
	callerB = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	callerC = "cccccccccccccccccccccccccccccccc"
	reqA    = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
)

func newMiniRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestBuildKey_ScopesEverySegment(t *testing.T) {
	base := buildKey("POST", "/loans/1111/fund", callerB, reqA)

	others := map[string]string{
		"other loan":   buildKey("POST", "/loans/2222/fund", callerB, reqA),
		"repay":        buildKey("POST", "/loans/1111/repay", callerB, reqA),
		"other caller": buildKey("POST", "/loans/1111/fund", callerC, reqA),
		"other id":     buildKey("POST", "/loans/1111/fund", callerB, strings.Repeat("d", 32)),
	}
	for name, k := range others {
		if k == base {
			t.Fatalf("%s: key collides with %q", name, base)
		}
	}
	// method case does not matter
	if buildKey("post", "/loans/1111/fund", callerB, reqA) != base {
		t.Fatalf("method case changed the key")
	}
}

func TestValidReqID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"3f9a6a1b-3d54-4fbe-8b3a-6b3e8d6b2c88", true},
		{reqA, true},
		{"", false},
		{strings.ToUpper(reqA), false},
		{reqA[:31], false},
		{reqA + "0", false},
		{"3f9a6a1b-3d54-9fbe-8b3a-6b3e8d6b2c88", false}, // version 9
		{"req-1", false},
	}
	for _, tc := range tests {
		if got := validReqID(tc.id); got != tc.want {
			t.Errorf("validReqID(%q) = %v, want %v", tc.id, got, tc.want)
		}
	}
}

func TestParseAxRequestAt(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	utc3 := time.Date(2025, 9, 5, 3, 0, 0, 0, time.UTC)

	tests := []struct {
		raw     string
		want    time.Time
		wantErr bool
	}{
		{strconv.FormatInt(now.Unix(), 10), time.Unix(now.Unix(), 0).UTC(), false},
		{strconv.FormatInt(now.UnixMilli(), 10), now, false},
		{"2025-09-05T10:00:00+07:00", utc3, false},
		{" 2025-09-05T03:00:00Z ", utc3, false},
		{"", time.Time{}, true},
		{"2025-09-05T10:00:00", time.Time{}, true}, // no zone
		{"yesterday", time.Time{}, true},
	}
	for _, tc := range tests {
		got, err := parseAxRequestAt(tc.raw)
		if tc.wantErr {
			if err == nil {
				t.Errorf("parseAxRequestAt(%q): expected error, got %v", tc.raw, got)
			}
			continue
		}
		if err != nil || !got.Equal(tc.want) || got.Location() != time.UTC {
			t.Errorf("parseAxRequestAt(%q) = %v, %v; want %v", tc.raw, got, err, tc.want)
		}
	}
}

func TestProvisionalSet_HoldsFirstWriter(t *testing.T) {
	_, rdb := newMiniRedis(t)
	ctx := context.Background()
	key := buildKey("POST", "/loans", callerB, reqA)
	entry := idempEntry{InProgress: true, BodySHA256: bodyHash([]byte(`{"amount":1}`)), RequestID: reqA}

	ok, err := provisionalSet(ctx, rdb, key, entry)
	if err != nil || !ok {
		t.Fatalf("first provisionalSet: ok=%v err=%v", ok, err)
	}
	if ttl := rdb.TTL(ctx, key).Val(); ttl <= 0 || ttl > provisionalLockTTL {
		t.Fatalf("lock ttl = %v", ttl)
	}

	other := entry
	other.BodySHA256 = bodyHash([]byte(`{"amount":2}`))
	ok, err = provisionalSet(ctx, rdb, key, other)
	if err != nil || ok {
		t.Fatalf("second provisionalSet: ok=%v err=%v, want held", ok, err)
	}

	got, err := loadEntry(ctx, rdb, key)
	if err != nil {
		t.Fatalf("loadEntry: %v", err)
	}
	if got.BodySHA256 != entry.BodySHA256 || !got.InProgress {
		t.Fatalf("lock overwritten: %+v", got)
	}
}

func TestSaveFinal_ThenRelease(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	ctx := context.Background()
	key := buildKey("POST", "/loans/1111/repay", callerB, reqA)
	final := idempEntry{Code: 200, Body: []byte(`{"loan":{"status":"closed"}}`), RequestID: reqA}

	if err := saveFinal(ctx, rdb, key, final, 5*time.Second); err != nil {
		t.Fatalf("saveFinal: %v", err)
	}
	got, err := loadEntry(ctx, rdb, key)
	if err != nil || got.Code != 200 || string(got.Body) != string(final.Body) {
		t.Fatalf("loadEntry = %+v, %v", got, err)
	}

	mr.FastForward(6 * time.Second)
	if _, err := loadEntry(ctx, rdb, key); !errors.Is(err, redis.Nil) {
		t.Fatalf("after ttl: want redis.Nil, got %v", err)
	}

	if _, err := provisionalSet(ctx, rdb, key, idempEntry{InProgress: true}); err != nil {
		t.Fatalf("provisionalSet: %v", err)
	}
	if err := release(ctx, rdb, key); err != nil {
		t.Fatalf("release: %v", err)
	}
	if mr.Exists(key) {
		t.Fatalf("key still present after release")
	}
}
