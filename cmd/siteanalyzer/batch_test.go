package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/siteanalyzer/internal/model"
)

func TestNewBatchCmd(t *testing.T) {
	t.Parallel()

	cmd := NewBatchCmd()
	if cmd.Name() != "batch" {
		t.Errorf("expected name 'batch', got %q", cmd.Name())
	}
	if flag := cmd.Flags().Lookup("crawl-delay"); flag == nil || flag.DefValue != "1s" {
		t.Errorf("expected --crawl-delay defaulting to 1s, got %v", flag)
	}
	for _, name := range []string{"list", "skip-recent", "no-progress", "json"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("expected %s flag", name)
		}
	}
}

func TestBatchCmd(t *testing.T) {
	t.Parallel()

	t.Run("isolates failures and keeps input order", func(t *testing.T) {
		t.Parallel()

		srv := newSite(t)
		outDir, _, configPath := workspace(t, "")

		out, err := execute(t, "batch", "--config", configPath, "-o", outDir, "--no-history",
			"--crawl-delay", "0s", "--no-progress", "--json",
			srv.URL+"/broken", srv.URL, "not a url")
		if !errors.Is(err, errCrawlFailed) {
			t.Fatalf("expected errCrawlFailed, got %v", err)
		}

		var result model.BatchResult
		if err := json.Unmarshal([]byte(out), &result); err != nil {
			t.Fatalf("expected JSON output, got %q: %v", out, err)
		}
		if result.Len() != 3 {
			t.Fatalf("expected 3 results, got %d", result.Len())
		}
		wantSuccess := []bool{false, true, false}
		for i, r := range result.Results {
			if r.Success != wantSuccess[i] {
				t.Errorf("result %d: expected success %v, got %+v", i, wantSuccess[i], r)
			}
		}
		if result.Results[1].URL != srv.URL {
			t.Errorf("expected second result for %s, got %s", srv.URL, result.Results[1].URL)
		}
	})

	t.Run("reads urls from a list file", func(t *testing.T) {
		t.Parallel()

		srv := newSite(t)
		outDir, _, configPath := workspace(t, "")
		listPath := filepath.Join(t.TempDir(), "urls.txt")
		list := "# sites\n" + srv.URL + "\n\n" + srv.URL + "/about\n"
		if err := os.WriteFile(listPath, []byte(list), 0600); err != nil {
			t.Fatalf("failed to write list: %v", err)
		}

		out, err := execute(t, "batch", "--config", configPath, "-o", outDir, "--no-history",
			"--crawl-delay", "0s", "--no-progress", "--list", listPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "[1/2] OK") || !strings.Contains(out, "[2/2] OK") {
			t.Errorf("expected two successful entries, got %q", out)
		}
		if !strings.Contains(out, "2 succeeded, 0 failed") {
			t.Errorf("expected summary, got %q", out)
		}
	})

	t.Run("skips recently crawled urls", func(t *testing.T) {
		t.Parallel()

		srv := newSite(t)
		outDir, dbDir, configPath := workspace(t, "")

		if _, err := execute(t, "crawl", "--config", configPath, "-o", outDir, "--db-dir", dbDir, srv.URL); err != nil {
			t.Fatalf("unexpected crawl error: %v", err)
		}

		out, err := execute(t, "batch", "--config", configPath, "-o", outDir, "--db-dir", dbDir,
			"--crawl-delay", "0s", "--no-progress", "--skip-recent", "1h", srv.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "Skipped") || !strings.Contains(out, "Nothing to crawl.") {
			t.Errorf("expected the url to be skipped, got %q", out)
		}
	})

	t.Run("requires urls", func(t *testing.T) {
		t.Parallel()

		_, _, configPath := workspace(t, "")
		if _, err := execute(t, "batch", "--config", configPath, "--no-history"); err == nil {
			t.Error("expected error without urls")
		}
	})
}

func TestReadURLList(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	t.Run("skips comments and blank lines", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(dir, "urls.txt")
		if err := os.WriteFile(path, []byte("# header\n\n  https://a.example  \nhttps://b.example\n"), 0600); err != nil {
			t.Fatalf("failed to write list: %v", err)
		}
		urls, err := readURLList(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(urls) != 2 || urls[0] != "https://a.example" || urls[1] != "https://b.example" {
			t.Errorf("expected two trimmed urls, got %v", urls)
		}
	})

	t.Run("empty list", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(dir, "empty.txt")
		if err := os.WriteFile(path, []byte("# nothing\n"), 0600); err != nil {
			t.Fatalf("failed to write list: %v", err)
		}
		if _, err := readURLList(path); err == nil {
			t.Error("expected error for empty list")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		if _, err := readURLList(filepath.Join(dir, "missing.txt")); err == nil {
			t.Error("expected error for missing file")
		}
	})
}
