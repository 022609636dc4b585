package storage

import (
	"errors"
	"strings"
	"testing"
	"time"

	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
)

func TestSelectMatchReferences_Postgres(t *testing.T) {
	query, args, err := SelectMatchReferences("postgres", MatchReferenceFilter{
		AccountID: 7,
		Platform:  " na1 ",
		Queues:    []int{420, 440},
		After:     time.UnixMilli(1000),
	})
	if err != nil {
		t.Fatalf("SelectMatchReferences() error = %v", err)
	}
	for _, fragment := range []string{
		`FROM "match_references"`,
		`"account_id" = $1`,
		`"platform_id" = $2`,
		`"queue" IN ($3, $4)`,
		`"created_ms" > $5`,
		`ORDER BY "created_ms" ASC, "game_id" ASC`,
	} {
		if !strings.Contains(query, fragment) {
			t.Fatalf("query %q does not contain %q", query, fragment)
		}
	}
	if len(args) != 5 {
		t.Fatalf("len(args) = %d, want 5 (%v)", len(args), args)
	}
	if args[1] != "NA1" {
		t.Fatalf("platform arg = %#v, want NA1", args[1])
	}
}

func TestSelectMatchReferences_SQLitePlaceholders(t *testing.T) {
	query, _, err := SelectMatchReferences("sqlite3", MatchReferenceFilter{AccountID: 7, Before: time.UnixMilli(5000)})
	if err != nil {
		t.Fatalf("SelectMatchReferences() error = %v", err)
	}
	if strings.Contains(query, "$1") || !strings.Contains(query, "?") {
		t.Fatalf("expected ? placeholders, got %q", query)
	}
	if !strings.Contains(query, "`created_ms` < ?") {
		t.Fatalf("expected upper time bound, got %q", query)
	}
}

func TestSelectMatchReferences_RequiresAccount(t *testing.T) {
	if _, _, err := SelectMatchReferences("postgres", MatchReferenceFilter{}); !errors.Is(err, ErrAccountRequired) {
		t.Fatalf("error = %v, want ErrAccountRequired", err)
	}
	if _, _, err := SelectKnownGameIDs("postgres", 0, "NA1"); !errors.Is(err, ErrAccountRequired) {
		t.Fatalf("error = %v, want ErrAccountRequired", err)
	}
}
