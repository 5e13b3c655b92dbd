package admin

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/louisbranch/liftboard/internal/platform/logging"
	"github.com/louisbranch/liftboard/internal/platform/password"
	boardapp "github.com/louisbranch/liftboard/internal/services/board/app"
	"github.com/louisbranch/liftboard/internal/services/board/storage/blob"
	"github.com/louisbranch/liftboard/internal/services/board/storage/sqlite"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	dir := t.TempDir()
	return Config{
		DBPath: filepath.Join(dir, "board.db"),
		Blob:   blob.Config{Backend: blob.BackendFS, Dir: filepath.Join(dir, "uploads")},
		Log:    logging.Config{Level: "error", Format: "json"},
	}
}

func run(t *testing.T, cfg Config, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewCommand(cfg, &out)
	cmd.SetArgs(args)
	cmd.SetErr(&out)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func seedUser(t *testing.T, cfg Config, handle string) {
	t.Helper()
	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()
	blobs, err := blob.OpenFS(cfg.Blob.Dir)
	if err != nil {
		t.Fatalf("open blobs: %v", err)
	}
	service, err := boardapp.New(boardapp.Config{Store: store, Blobs: blobs, Hasher: password.NewHasher()})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	if _, _, err := service.SignUp(context.Background(), boardapp.SignUpInput{Handle: handle, Name: strings.ToUpper(handle), Password: "correct horse"}); err != nil {
		t.Fatalf("sign up %s: %v", handle, err)
	}
}

func TestCommandTree(t *testing.T) {
	t.Parallel()

	cmd := NewCommand(Config{}, &bytes.Buffer{})
	for _, path := range [][]string{
		{"migrate"},
		{"users", "list"},
		{"moderator", "grant"},
		{"moderator", "revoke"},
		{"sessions", "prune"},
	} {
		found, _, err := cmd.Find(path)
		if err != nil || found == cmd {
			t.Fatalf("command %v not found: %v", path, err)
		}
	}
	if cmd.PersistentFlags().Lookup("db-path") == nil {
		t.Fatal("expected persistent db-path flag")
	}
}

func TestMigrate(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	out, err := run(t, cfg, "migrate")
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if !strings.Contains(out, "applied 001_board.sql") {
		t.Fatalf("output = %q", out)
	}

	out, err = run(t, cfg, "migrate")
	if err != nil {
		t.Fatalf("migrate again: %v", err)
	}
	if !strings.Contains(out, "no pending migrations") {
		t.Fatalf("output = %q", out)
	}

	out, err = run(t, cfg, "migrate", "--status")
	if err != nil {
		t.Fatalf("migrate status: %v", err)
	}
	if !strings.Contains(out, "001_board.sql") || !strings.Contains(out, "true") {
		t.Fatalf("status output = %q", out)
	}
}

func TestDBPathFlagOverridesConfig(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	other := filepath.Join(t.TempDir(), "other.db")
	if _, err := run(t, cfg, "migrate", "--db-path", other); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	out, err := run(t, Config{}, "migrate", "--status", "--db-path", other)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "true") {
		t.Fatalf("status output = %q", out)
	}
}

func TestUsersListAndModerator(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	seedUser(t, cfg, "bob")
	seedUser(t, cfg, "ana")

	out, err := run(t, cfg, "moderator", "grant", "@Ana")
	if err != nil {
		t.Fatalf("grant: %v", err)
	}
	if strings.TrimSpace(out) != "@ana moderator=true" {
		t.Fatalf("grant output = %q", out)
	}

	out, err = run(t, cfg, "users", "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %q", lines)
	}
	if !strings.Contains(lines[1], "@ana") || !strings.Contains(lines[1], "true") {
		t.Fatalf("first user line = %q", lines[1])
	}
	if !strings.Contains(lines[2], "@bob") || !strings.Contains(lines[2], "false") {
		t.Fatalf("second user line = %q", lines[2])
	}

	out, err = run(t, cfg, "moderator", "revoke", "ana")
	if err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if strings.TrimSpace(out) != "@ana moderator=false" {
		t.Fatalf("revoke output = %q", out)
	}
}

func TestModeratorUnknownUser(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	if _, err := run(t, cfg, "migrate"); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	_, err := run(t, cfg, "moderator", "grant", "nobody")
	if err == nil || err.Error() != "user nobody not found" {
		t.Fatalf("err = %v", err)
	}
	if _, err := run(t, cfg, "moderator", "grant"); err == nil {
		t.Fatal("expected missing handle to fail")
	}
}

func TestSessionsPrune(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	seedUser(t, cfg, "ana")
	out, err := run(t, cfg, "sessions", "prune")
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if strings.TrimSpace(out) != "pruned 0 sessions" {
		t.Fatalf("output = %q", out)
	}
}

func TestLoadConfigReadsPrefixedEnv(t *testing.T) {
	t.Setenv("LIFTBOARD_DB_PATH", "/srv/board.db")
	t.Setenv("LIFTBOARD_BLOB_BACKEND", "bolt")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.DBPath != "/srv/board.db" || cfg.Blob.Backend != "bolt" {
		t.Fatalf("config = %+v", cfg)
	}
}
