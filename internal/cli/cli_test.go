package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/rewired-gh/boligpris/internal/models"
	"github.com/rewired-gh/boligpris/internal/query"
	"github.com/rewired-gh/boligpris/internal/ssb"
)

// mockSSB answers table queries with one value per period and metadata
// requests with the first published quarters only.
func mockSSB(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			_ = json.NewEncoder(w).Encode(ssb.TableMeta{
				Title: "07241",
				Variables: []ssb.Variable{
					{Code: "Tid", Values: []string{"2009K1", "2009K2", "2024K1"}},
				},
			})
			return
		}
		var p query.Payload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		values := make([]float64, len(p.Values("Tid")))
		for i := range values {
			values[i] = 45000 + float64(i)*250
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"value": values})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("BOLIGPRIS_SSB_API_BASE_URL", mockSSB(t).URL)
	t.Setenv("BOLIGPRIS_STORAGE_FILE_PATH", filepath.Join(dir, "history.json"))
	t.Setenv("BOLIGPRIS_LOGGING_LEVEL", "error")
	return dir
}

// run executes the root command with fresh flag values.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(RootCmd)

	var buf bytes.Buffer
	RootCmd.SetOut(&buf)
	RootCmd.SetErr(&buf)
	RootCmd.SetArgs(args)
	err := RootCmd.Execute()
	return buf.String(), err
}

func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func TestQuerySaveAndList(t *testing.T) {
	dir := setupEnv(t)
	chartPath := filepath.Join(dir, "out", "chart.png")

	out, err := run(t, "query", "--from", "2023K1", "--to", "59", "--type", "02", "--save", "--out", chartPath)
	if err != nil {
		t.Fatalf("query failed: %v\n%s", err, out)
	}
	for _, want := range []string{"SMÅHUS", "2023K1", "45,000 NOK", "2023K4", "45,750 NOK", "range=2023K1-2023K4", "Saved to history."} {
		if !strings.Contains(out, want) {
			t.Errorf("query output missing %q:\n%s", want, out)
		}
	}
	if info, err := os.Stat(chartPath); err != nil || info.Size() == 0 {
		t.Errorf("chart not written: %v", err)
	}

	out, err = run(t, "history", "list", "--format", "json")
	if err != nil {
		t.Fatalf("history list failed: %v", err)
	}
	var records []models.QueryRecord
	if err := json.Unmarshal([]byte(out), &records); err != nil {
		t.Fatalf("decode history output: %v\n%s", err, out)
	}
	want := models.QueryRecord{Range: [2]int{56, 59}, Type: "02"}
	if len(records) != 1 || records[0] != want {
		t.Errorf("history = %+v, want [%+v]", records, want)
	}

	out, err = run(t, "history", "list", "--format", "yaml")
	if err != nil {
		t.Fatalf("history list yaml failed: %v", err)
	}
	if !strings.Contains(out, "range: [56, 59]") {
		t.Errorf("yaml output = %q", out)
	}

	out, err = run(t, "history", "list")
	if err != nil {
		t.Fatalf("history list text failed: %v", err)
	}
	if !strings.Contains(out, "Småhus 2023K1-2023K4") {
		t.Errorf("text output = %q", out)
	}
}

func TestQueryWithoutSaveLeavesHistoryEmpty(t *testing.T) {
	setupEnv(t)

	if out, err := run(t, "query", "--from", "2010K1", "--to", "2009K1"); err != nil {
		t.Fatalf("query failed: %v\n%s", err, out)
	}

	out, err := run(t, "history", "list")
	if err != nil {
		t.Fatalf("history list failed: %v", err)
	}
	if !strings.Contains(out, "No saved searches.") {
		t.Errorf("expected empty history, got %q", out)
	}
}

func TestQueryRejectsBadInput(t *testing.T) {
	setupEnv(t)

	tests := [][]string{
		{"query", "--type", "07"},
		{"query", "--from", "2024K1"},
		{"history", "list", "--format", "xml"},
	}
	for _, args := range tests {
		if _, err := run(t, args...); err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
}

func TestQuarters(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "quarters")
	if err != nil {
		t.Fatalf("quarters failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 60 {
		t.Fatalf("expected 60 lines, got %d", len(lines))
	}
	if lines[0] != " 0  2009K1" || lines[59] != "59  2023K4" {
		t.Errorf("unexpected bounds: %q .. %q", lines[0], lines[59])
	}

	out, err = run(t, "quarters", "--remote")
	if err != nil {
		t.Fatalf("quarters --remote failed: %v", err)
	}
	if !strings.Contains(out, " 0  2009K1  ok") || !strings.Contains(out, "59  2023K4  missing") {
		t.Errorf("unexpected remote output:\n%s", out)
	}
	if !strings.Contains(out, "2 of 60 quarters published (table offers 3)") {
		t.Errorf("unexpected summary:\n%s", out)
	}
}

func TestServeExitsWhenStorageCannotOpen(t *testing.T) {
	if os.Getenv("BOLIGPRIS_TEST_SERVE") == "1" {
		_, _ = run(t, "serve", "--addr", "127.0.0.1:0")
		return
	}

	// A regular file where the database directory should be.
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=^TestServeExitsWhenStorageCannotOpen$")
	cmd.Env = append(os.Environ(),
		"BOLIGPRIS_TEST_SERVE=1",
		"BOLIGPRIS_STORAGE_BACKEND=sqlite",
		"BOLIGPRIS_STORAGE_SQLITE_PATH="+filepath.Join(blocker, "db", "history.db"),
	)
	out, err := cmd.CombinedOutput()

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) || exitErr.ExitCode() != 1 {
		t.Fatalf("Expected exit status 1, got %v\n%s", err, out)
	}
	if !strings.Contains(string(out), "FATAL: Failed to initialize storage") {
		t.Errorf("Startup failure should be logged as fatal:\n%s", out)
	}
}
