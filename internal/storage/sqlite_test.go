package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenCreatesNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestStoreReopenKeepsScores(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if _, err := store.SaveScore("snake", 12); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("second Open() failed: %v", err)
	}
	defer store.Close()

	high, err := store.HighScore("snake")
	if err != nil || high != 12 {
		t.Errorf("HighScore() = %d, %v; expected 12", high, err)
	}
}

func TestStoreTopScores(t *testing.T) {
	store := openTestStore(t)

	for _, s := range []int{100, 50, 200} {
		if _, err := store.SaveScore("catcher", s); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}
	if _, err := store.SaveScore("aim", 500); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	scores, err := store.TopScores("catcher", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(scores))
	}
	if scores[0].Score != 200 || scores[1].Score != 100 || scores[2].Score != 50 {
		t.Errorf("Scores not sorted descending: %v", scores)
	}
	if scores[0].EnvID != "catcher" {
		t.Errorf("EnvID = %q", scores[0].EnvID)
	}

	limited, err := store.TopScores("catcher", 2)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("Expected 2 scores with limit, got %d", len(limited))
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore("aim")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 for empty env, got %d", high)
	}

	store.SaveScore("aim", 7)
	store.SaveScore("aim", 31)
	store.SaveScore("aim", 18)

	high, err = store.HighScore("aim")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 31 {
		t.Errorf("Expected high score of 31, got %d", high)
	}
}

func TestStoreClearScores(t *testing.T) {
	store := openTestStore(t)

	store.SaveScore("snake", 4)
	store.SaveScore("snake", 9)
	store.SaveScore("catcher", 300)

	if err := store.ClearScores("snake"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	snakeScores, _ := store.TopScores("snake", 10)
	if len(snakeScores) != 0 {
		t.Errorf("Expected 0 snake scores after clear, got %d", len(snakeScores))
	}
	catcherScores, _ := store.TopScores("catcher", 10)
	if len(catcherScores) != 1 {
		t.Error("Catcher scores should not be affected by clearing snake")
	}
}

func TestStoreAllEnvStats(t *testing.T) {
	store := openTestStore(t)

	store.SaveScore("snake", 10)
	store.SaveScore("snake", 20)
	store.SaveScore("aim", 5)

	stats, err := store.AllEnvStats()
	if err != nil {
		t.Fatalf("AllEnvStats() failed: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("Expected stats for 2 envs, got %d", len(stats))
	}

	snake := stats["snake"]
	if snake.GamesCount != 2 || snake.HighScore != 20 || snake.AvgScore != 15 {
		t.Errorf("snake stats = %+v", snake)
	}
	if snake.LastPlayed.IsZero() {
		t.Error("LastPlayed should be parsed")
	}
}

func TestStoreEvalRunRoundTrip(t *testing.T) {
	store := openTestStore(t)

	run := EvalRun{
		RunID:       "run-1",
		EnvID:       "snake",
		Policy:      "heuristic",
		RewardMode:  "shaped",
		Episodes:    2,
		BaseSeed:    100,
		MeanReward:  3.5,
		StdReward:   0.5,
		MeanScore:   6,
		MaxScore:    8,
		MeanSteps:   120,
		CrashRate:   0.5,
		TimeoutRate: 0.5,
	}
	episodes := []EvalEpisode{
		{EpisodeID: "b", Seed: 101, Steps: 140, TotalReward: 4, Score: 8, Length: 11, Truncated: true},
		{EpisodeID: "a", Seed: 100, Steps: 100, TotalReward: 3, Score: 4, Length: 7, Terminated: true},
	}

	if err := store.SaveEvalRun(run, episodes); err != nil {
		t.Fatalf("SaveEvalRun() failed: %v", err)
	}

	got, err := store.EvalRunByID("run-1")
	if err != nil {
		t.Fatalf("EvalRunByID() failed: %v", err)
	}
	got.CreatedAt = run.CreatedAt
	if *got != run {
		t.Errorf("run = %+v, expected %+v", *got, run)
	}

	eps, err := store.EvalEpisodes("run-1")
	if err != nil {
		t.Fatalf("EvalEpisodes() failed: %v", err)
	}
	if len(eps) != 2 {
		t.Fatalf("Expected 2 episodes, got %d", len(eps))
	}
	if eps[0] != episodes[1] || eps[1] != episodes[0] {
		t.Errorf("episodes not ordered by seed: %+v", eps)
	}
}

func TestStoreRecentEvalRuns(t *testing.T) {
	store := openTestStore(t)

	for _, r := range []EvalRun{
		{RunID: "1", EnvID: "aim", Policy: "random", RewardMode: "survival"},
		{RunID: "2", EnvID: "snake", Policy: "random", RewardMode: "shaped"},
		{RunID: "3", EnvID: "aim", Policy: "heuristic", RewardMode: "survival"},
	} {
		if err := store.SaveEvalRun(r, nil); err != nil {
			t.Fatalf("SaveEvalRun() failed: %v", err)
		}
	}

	aimRuns, err := store.RecentEvalRuns("aim", 10)
	if err != nil {
		t.Fatalf("RecentEvalRuns() failed: %v", err)
	}
	if len(aimRuns) != 2 || aimRuns[0].RunID != "3" || aimRuns[1].RunID != "1" {
		t.Errorf("aim runs = %+v, expected newest first", aimRuns)
	}

	all, err := store.RecentEvalRuns("", 10)
	if err != nil {
		t.Fatalf("RecentEvalRuns() failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("Expected 3 runs across envs, got %d", len(all))
	}
}

func TestStoreEvalRunDuplicateRejected(t *testing.T) {
	store := openTestStore(t)

	run := EvalRun{RunID: "dup", EnvID: "catcher", Policy: "random", RewardMode: "standard"}
	if err := store.SaveEvalRun(run, nil); err != nil {
		t.Fatalf("SaveEvalRun() failed: %v", err)
	}
	if err := store.SaveEvalRun(run, []EvalEpisode{{EpisodeID: "x"}}); err == nil {
		t.Fatal("duplicate run id should be rejected")
	}

	eps, err := store.EvalEpisodes("dup")
	if err != nil {
		t.Fatal(err)
	}
	if len(eps) != 0 {
		t.Error("failed save must not leave episodes behind")
	}
}

func TestStoreEvalRunNotFound(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.EvalRunByID("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
