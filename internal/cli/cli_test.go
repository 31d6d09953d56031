package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pfrederiksen/expat-events/internal/config"
	"github.com/pfrederiksen/expat-events/internal/logger"
)

const listingPage = `<html><body><table>
<tr><th>EVENT TYPE</th><th>ORGANIZATION</th><th>CITY</th><th>DATE</th><th>LOCATION</th></tr>
<tr><td>Talk</td><td>Acme</td><td>Utrecht</td><td>14 March 2026 19:00</td><td>Forum</td></tr>
<tr><td>Walk</td><td>Walkers</td><td>Haarlem</td><td>Every Monday</td><td>Markt</td></tr>
</table></body></html>`

func writeConfig(t *testing.T, dir, url string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	content := fmt.Sprintf(`sources:
  - name: Test Listing
    url: %s
    category: networking
    parser: expatinfo_table
categories:
  networking: net.ics
`, url)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	previous := logger.Default()
	t.Cleanup(func() { logger.SetDefault(previous) })

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCmd_Export(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, listingPage)
	}))
	defer server.Close()

	dir := t.TempDir()
	outDir := filepath.Join(dir, "docs")
	metricsFile := filepath.Join(dir, "expat_events.prom")

	out, err := execute(t,
		"--config", writeConfig(t, dir, server.URL),
		"--out-dir", outDir,
		"--metrics-file", metricsFile,
	)
	if err != nil {
		t.Fatalf("execute error = %v\n%s", err, out)
	}

	wantPath := filepath.Join(outDir, "net.ics")
	for _, want := range []string{
		"Fetching: Test Listing\n",
		"  Found with dates: 1\n",
		fmt.Sprintf("  Exported: %s (1 events)\n", wantPath),
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	data, err := os.ReadFile(wantPath)
	if err != nil {
		t.Fatalf("calendar not written: %v", err)
	}
	if !strings.Contains(string(data), "SUMMARY:Acme (Talk) — Utrecht") {
		t.Errorf("calendar missing event:\n%s", data)
	}

	prom, err := os.ReadFile(metricsFile)
	if err != nil {
		t.Fatalf("metrics file not written: %v", err)
	}
	if !strings.Contains(string(prom), `expat_events_category_events{category="networking"} 1`) {
		t.Errorf("metrics file missing gauge:\n%s", prom)
	}
}

func TestRootCmd_JSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, listingPage)
	}))
	defer server.Close()

	dir := t.TempDir()
	out, err := execute(t, "--config", writeConfig(t, dir, server.URL), "--out-dir", dir, "--format", "json")
	if err != nil {
		t.Fatalf("execute error = %v", err)
	}

	var report struct {
		Sources []struct {
			Skipped map[string]int `json:"skipped"`
		} `json:"sources"`
	}
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if report.Sources[0].Skipped["date_recurring"] != 1 {
		t.Errorf("skipped = %v, want date_recurring=1", report.Sources[0].Skipped)
	}
}

func TestRootCmd_FetchErrorFails(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	dir := t.TempDir()
	outDir := filepath.Join(dir, "docs")
	out, err := execute(t, "--config", writeConfig(t, dir, server.URL), "--out-dir", outDir)
	if err == nil {
		t.Fatal("expected error for 404 source")
	}
	if !strings.Contains(out, "Fetch failed") {
		t.Errorf("partial report not printed:\n%s", out)
	}
	if _, err := os.Stat(outDir); !os.IsNotExist(err) {
		t.Errorf("output directory created despite fetch error")
	}
}

func TestRootCmd_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"format", []string{"--format", "xml"}},
		{"timezone", []string{"--timezone", "Nowhere/Atlantis"}},
		{"missing config", []string{"--config", filepath.Join(t.TempDir(), "absent.yaml")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, tt.args...); err == nil {
				t.Errorf("execute(%v) expected error", tt.args)
			}
		})
	}
}

func TestSourcesCmd(t *testing.T) {
	out, err := execute(t, "sources")
	if err != nil {
		t.Fatalf("execute error = %v", err)
	}
	for _, want := range []string{"NAME", "networking.ics", "workshops_upskilling", config.ParserExpatInfoTable} {
		if !strings.Contains(out, want) {
			t.Errorf("sources output missing %q:\n%s", want, out)
		}
	}

	out, err = execute(t, "sources", "--format", "json")
	if err != nil {
		t.Fatalf("execute error = %v", err)
	}
	var sources []config.Source
	if err := json.Unmarshal([]byte(out), &sources); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(sources) != len(config.DefaultSources()) {
		t.Errorf("got %d sources, want %d", len(sources), len(config.DefaultSources()))
	}
}
