package teams

import "testing"

func TestLoadEmbeddedTable(t *testing.T) {
	t.Parallel()

	ix, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if ix.Len() == 0 {
		t.Fatal("Load() produced an empty index")
	}
}

func TestFindPrefersLongestAlias(t *testing.T) {
	t.Parallel()

	ix := MustLoad()

	tests := []struct {
		text string
		want string
	}{
		{"how good are the dawgs this year", "Georgia Bulldogs"},
		{"ohio state schedule", "Ohio State Buckeyes"},
		{"roll tide!", "Alabama Crimson Tide"},
		{"florida state depth chart", "Florida State Seminoles"},
		{"florida depth chart", "Florida Gators"},
	}
	for _, tt := range tests {
		got, ok := ix.Find(tt.text)
		if !ok {
			t.Fatalf("Find(%q) ok = false", tt.text)
		}
		if got != tt.want {
			t.Fatalf("Find(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestFindIgnoresSubstringsInsideWords(t *testing.T) {
	t.Parallel()

	ix := MustLoad()
	if team, ok := ix.Find("contextual analysis"); ok {
		t.Fatalf("Find() matched %q inside an unrelated word", team)
	}
}

func TestMatchupReturnsTeamsInOrder(t *testing.T) {
	t.Parallel()

	ix := MustLoad()
	team, opp, ok := ix.Matchup("georgia vs alabama all time record")
	if !ok {
		t.Fatal("Matchup() ok = false")
	}
	if team != "Georgia Bulldogs" || opp != "Alabama Crimson Tide" {
		t.Fatalf("Matchup() = (%q, %q)", team, opp)
	}

	if _, _, ok := ix.Matchup("georgia season outlook"); ok {
		t.Fatal("Matchup() found an opponent in a one-team query")
	}
}

func TestRewriteExpandsNicknames(t *testing.T) {
	t.Parallel()

	ix := MustLoad()
	got := ix.Rewrite("Show me UGA highlights")
	want := "show me georgia bulldogs highlights"
	if got != want {
		t.Fatalf("Rewrite() = %q, want %q", got, want)
	}
}

func TestDetectSport(t *testing.T) {
	t.Parallel()

	if sport, explicit := DetectSport("who won the basketball game"); sport != "basketball" || !explicit {
		t.Fatalf("DetectSport() = (%q, %v), want (basketball, true)", sport, explicit)
	}
	if sport, explicit := DetectSport("georgia score"); sport != "football" || explicit {
		t.Fatalf("DetectSport() fallback = (%q, %v), want (football, false)", sport, explicit)
	}
}
