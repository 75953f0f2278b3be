package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gzanee/skyscanner/internal/models"
	"github.com/gzanee/skyscanner/internal/services"
	"github.com/gzanee/skyscanner/internal/shared"
	tu "github.com/gzanee/skyscanner/internal/testing"
	"github.com/urfave/cli/v3"
)

func newTestRunner(t *testing.T, svc services.Service) (*Runner, *bytes.Buffer) {
	t.Helper()

	config := shared.DefaultConfig()
	config.Storage.Path = filepath.Join(t.TempDir(), "history.db")

	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Config:  config,
		Flights: svc,
		Logger:  shared.NewLogger(io.Discard),
		Output:  output,
	})
	return runner, output
}

func runCommand(t *testing.T, r *Runner, args ...string) error {
	t.Helper()
	app := &cli.Command{Name: "skyscan", Commands: r.register()}
	return app.Run(context.Background(), append([]string{"skyscan"}, args...))
}

func searchResult() *services.SearchResult {
	return &services.SearchResult{
		Flights: []models.Flight{
			{City: "Londra", OriginCode: "VCE", DestCode: "STN", Price: 29, Departure: "08:10", Arrival: "10:05", Duration: "1h 55min", Airline: "Ryanair"},
			{City: "Londra", OriginCode: "VCE", DestCode: "LGW", Price: 45, Departure: "12:30", Arrival: "14:20", Duration: "1h 50min", Airline: "easyJet"},
		},
		Count: 2,
	}
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			flights := &tu.MockService{}
			api := &services.APIService{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				ConfigPath: "/tmp/config.toml",
				Flights:    flights,
				API:        api,
				Logger:     logger,
				Output:     output,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.configPath != "/tmp/config.toml" {
				t.Errorf("configPath = %s", runner.configPath)
			}
			if runner.flights != flights {
				t.Error("expected flights to be set")
			}
			if runner.api != api {
				t.Error("expected api to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
		})

		t.Run("with nil dependencies uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config")
			}
			if runner.configPath == "" {
				t.Error("expected default config path")
			}
			if runner.logger == nil {
				t.Error("expected default logger")
			}
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})
	})

	t.Run("Airports", func(t *testing.T) {
		t.Run("prints suggestions", func(t *testing.T) {
			svc := &tu.MockService{Suggestions: []models.Suggestion{
				{SkyID: "VCE", Title: "Venezia Marco Polo", Subtitle: "Italia", EntityType: "AIRPORT"},
			}}
			runner, output := newTestRunner(t, svc)

			if err := runCommand(t, runner, "airports", "venezia"); err != nil {
				t.Fatalf("airports failed: %v", err)
			}
			if !strings.Contains(output.String(), "VCE") {
				t.Errorf("output missing code: %q", output.String())
			}
			if len(svc.LookupQueries) != 1 || svc.LookupQueries[0] != "venezia" {
				t.Errorf("lookup queries = %v", svc.LookupQueries)
			}
		})

		t.Run("rejects short queries", func(t *testing.T) {
			svc := &tu.MockService{}
			runner, _ := newTestRunner(t, svc)

			err := runCommand(t, runner, "airports", "v")
			if !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
			if len(svc.LookupQueries) != 0 {
				t.Error("short query must not hit the service")
			}
		})
	})

	t.Run("Search", func(t *testing.T) {
		t.Run("one-shot prints results", func(t *testing.T) {
			svc := &tu.MockService{Result: searchResult()}
			runner, output := newTestRunner(t, svc)

			err := runCommand(t, runner, "search",
				"--from", "VCE", "--to", "STN", "--to", "LGW",
				"--date", "24/12/2026", "--max-price", "80")
			if err != nil {
				t.Fatalf("search failed: %v", err)
			}

			if !strings.Contains(output.String(), "VCE > STN") {
				t.Errorf("output missing flights: %q", output.String())
			}
			if len(svc.SearchQueries) != 1 {
				t.Fatalf("search queries = %d", len(svc.SearchQueries))
			}
			if query := svc.SearchQueries[0]; query.MaxPrice != 80 || len(query.Origins) != 1 {
				t.Errorf("query = %+v", query)
			}
		})

		t.Run("sorts before printing", func(t *testing.T) {
			result := searchResult()
			result.Flights[0], result.Flights[1] = result.Flights[1], result.Flights[0]
			svc := &tu.MockService{Result: result}
			runner, output := newTestRunner(t, svc)

			err := runCommand(t, runner, "search",
				"--from", "VCE", "--everywhere", "--date", "24/12/2026", "--max-price", "80")
			if err != nil {
				t.Fatalf("search failed: %v", err)
			}

			text := output.String()
			if strings.Index(text, "STN") > strings.Index(text, "LGW") {
				t.Errorf("flights not sorted by price: %q", text)
			}
		})

		t.Run("missing origin fails validation", func(t *testing.T) {
			svc := &tu.MockService{}
			runner, _ := newTestRunner(t, svc)

			err := runCommand(t, runner, "search", "--date", "24/12/2026", "--max-price", "80")
			if !errors.Is(err, shared.ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
			if len(svc.SearchQueries) != 0 {
				t.Error("invalid query must not hit the service")
			}
		})

		t.Run("unknown sort rejected", func(t *testing.T) {
			svc := &tu.MockService{}
			runner, _ := newTestRunner(t, svc)

			err := runCommand(t, runner, "search",
				"--from", "VCE", "--everywhere", "--date", "24/12/2026",
				"--max-price", "80", "--sort", "alphabetical")
			if !errors.Is(err, shared.ErrInvalidFlag) {
				t.Errorf("expected ErrInvalidFlag, got %v", err)
			}
		})

		t.Run("json output", func(t *testing.T) {
			svc := &tu.MockService{Result: searchResult()}
			runner, output := newTestRunner(t, svc)

			err := runCommand(t, runner, "search",
				"--from", "VCE", "--everywhere", "--date", "24/12/2026",
				"--max-price", "80", "--json")
			if err != nil {
				t.Fatalf("search failed: %v", err)
			}
			if !strings.Contains(output.String(), `"codice_dest": "STN"`) {
				t.Errorf("json output missing wire fields: %q", output.String())
			}
		})

		t.Run("save and list roundtrip", func(t *testing.T) {
			svc := &tu.MockService{Result: searchResult()}
			runner, output := newTestRunner(t, svc)

			err := runCommand(t, runner, "search",
				"--from", "VCE", "--everywhere", "--date", "24/12/2026",
				"--max-price", "80", "--save")
			if err != nil {
				t.Fatalf("search --save failed: %v", err)
			}

			output.Reset()
			if err := runCommand(t, runner, "history", "list"); err != nil {
				t.Fatalf("history list failed: %v", err)
			}
			if !strings.Contains(output.String(), "2 flights") {
				t.Errorf("history missing saved search: %q", output.String())
			}
		})
	})

	t.Run("Transport", func(t *testing.T) {
		t.Run("airports through a canned response", func(t *testing.T) {
			body := `[{"skyId": "FCO", "title": "Roma Fiumicino", "entityType": "AIRPORT"}]`
			resp := &http.Response{
				StatusCode: http.StatusOK,
				Header:     http.Header{"Content-Type": []string{"application/json"}},
				Body:       io.NopCloser(strings.NewReader(body)),
			}
			flights := services.NewFlightsService("http://proxy.test", &http.Client{Transport: tu.NewMockRoundTripper(resp, nil)})
			runner, output := newTestRunner(t, flights)

			if err := runCommand(t, runner, "airports", "roma"); err != nil {
				t.Fatalf("airports failed: %v", err)
			}
			if !strings.Contains(output.String(), "FCO") {
				t.Errorf("output missing suggestion: %q", output.String())
			}
		})

		t.Run("transport failure surfaces", func(t *testing.T) {
			flights := services.NewFlightsService("http://proxy.test", &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("dial failed"))})
			runner, _ := newTestRunner(t, flights)

			err := runCommand(t, runner, "search",
				"--from", "VCE", "--everywhere", "--date", "24/12/2026", "--max-price", "80")
			if !errors.Is(err, shared.ErrSearchFailed) {
				t.Errorf("expected ErrSearchFailed, got %v", err)
			}
		})

		t.Run("unreadable response body", func(t *testing.T) {
			resp := &http.Response{StatusCode: http.StatusOK, Header: http.Header{}, Body: &tu.FCloser{}}
			flights := services.NewFlightsService("http://proxy.test", &http.Client{Transport: tu.NewMockRoundTripper(resp, nil)})
			runner, _ := newTestRunner(t, flights)

			err := runCommand(t, runner, "airports", "roma")
			if !errors.Is(err, shared.ErrAPIResponse) {
				t.Errorf("expected ErrAPIResponse, got %v", err)
			}
		})
	})

	t.Run("History", func(t *testing.T) {
		t.Run("empty list", func(t *testing.T) {
			runner, output := newTestRunner(t, &tu.MockService{})

			if err := runCommand(t, runner, "history", "list"); err != nil {
				t.Fatalf("history list failed: %v", err)
			}
			if !strings.Contains(output.String(), "No saved searches") {
				t.Errorf("output = %q", output.String())
			}
		})

		t.Run("show unknown id", func(t *testing.T) {
			runner, _ := newTestRunner(t, &tu.MockService{})

			err := runCommand(t, runner, "history", "show", "missing-id")
			if !errors.Is(err, shared.ErrSearchNotFound) {
				t.Errorf("expected ErrSearchNotFound, got %v", err)
			}
		})

		t.Run("clear reports deletions", func(t *testing.T) {
			svc := &tu.MockService{Result: searchResult()}
			runner, output := newTestRunner(t, svc)

			err := runCommand(t, runner, "search",
				"--from", "VCE", "--everywhere", "--date", "24/12/2026",
				"--max-price", "80", "--save")
			if err != nil {
				t.Fatalf("search --save failed: %v", err)
			}

			output.Reset()
			if err := runCommand(t, runner, "history", "clear"); err != nil {
				t.Fatalf("history clear failed: %v", err)
			}
			if !strings.Contains(output.String(), "Deleted 1") {
				t.Errorf("output = %q", output.String())
			}
		})

		t.Run("unconfigured storage rejected", func(t *testing.T) {
			runner, _ := newTestRunner(t, &tu.MockService{})
			runner.config.Storage.Path = ""

			err := runCommand(t, runner, "history", "list")
			if !errors.Is(err, shared.ErrMissingConfig) {
				t.Errorf("expected ErrMissingConfig, got %v", err)
			}
		})
	})

	t.Run("Export", func(t *testing.T) {
		t.Run("saved search to csv", func(t *testing.T) {
			svc := &tu.MockService{Result: searchResult()}
			runner, output := newTestRunner(t, svc)

			err := runCommand(t, runner, "search",
				"--from", "VCE", "--everywhere", "--date", "24/12/2026",
				"--max-price", "80", "--save")
			if err != nil {
				t.Fatalf("search --save failed: %v", err)
			}

			repo, db, err := runner.openRepository()
			if err != nil {
				t.Fatalf("openRepository() error = %v", err)
			}
			searches, err := repo.List(nil)
			db.Close()
			if err != nil || len(searches) != 1 {
				t.Fatalf("List() = %d searches, err %v", len(searches), err)
			}

			exportPath := filepath.Join(t.TempDir(), "flights.csv")
			output.Reset()
			err = runCommand(t, runner, "export",
				"--id", searches[0].ID(), "--format", "csv", "--output", exportPath)
			if err != nil {
				t.Fatalf("export failed: %v", err)
			}

			tu.AssertFileExists(t, exportPath)
			content := tu.MustReadFile(t, exportPath)
			if !strings.Contains(content, "STN") {
				t.Errorf("csv missing flights: %q", content)
			}
		})

		t.Run("rejects unknown format", func(t *testing.T) {
			runner, _ := newTestRunner(t, &tu.MockService{})

			err := runCommand(t, runner, "export", "--id", "x", "--format", "pdf")
			if !errors.Is(err, shared.ErrInvalidFlag) {
				t.Errorf("expected ErrInvalidFlag, got %v", err)
			}
		})
	})

	t.Run("Setup", func(t *testing.T) {
		t.Run("creates config and database", func(t *testing.T) {
			dir := t.TempDir()
			configPath := filepath.Join(dir, "skyscan", "config.toml")

			// the template config points its database at the working
			// directory
			wd := tu.MustGetwd(t)
			tu.MustChdir(t, dir)
			defer tu.MustChdir(t, wd)

			runner, output := newTestRunner(t, &tu.MockService{})

			if err := runCommand(t, runner, "setup", "--config", configPath); err != nil {
				t.Fatalf("setup failed: %v", err)
			}

			tu.AssertDirExists(t, filepath.Join(dir, "skyscan"))
			tu.AssertFileExists(t, configPath)
			if !strings.Contains(output.String(), "Config ready") {
				t.Errorf("output = %q", output.String())
			}
		})

		t.Run("show prints toml", func(t *testing.T) {
			runner, output := newTestRunner(t, &tu.MockService{})

			if err := runCommand(t, runner, "setup", "show"); err != nil {
				t.Fatalf("setup show failed: %v", err)
			}
			if !strings.Contains(output.String(), "[api]") {
				t.Errorf("output missing toml sections: %q", output.String())
			}
		})
	})

	t.Run("Writers", func(t *testing.T) {
		t.Run("writeJSON compact and pretty", func(t *testing.T) {
			runner, output := newTestRunner(t, &tu.MockService{})

			if err := runner.writeJSON(map[string]int{"a": 1}, false); err != nil {
				t.Fatalf("writeJSON() error = %v", err)
			}
			if output.String() != "{\"a\":1}\n" {
				t.Errorf("compact output = %q", output.String())
			}

			output.Reset()
			if err := runner.writeJSON(map[string]int{"a": 1}, true); err != nil {
				t.Fatalf("writeJSON() error = %v", err)
			}
			if !strings.Contains(output.String(), "  \"a\": 1") {
				t.Errorf("pretty output = %q", output.String())
			}
		})

		t.Run("write failure surfaces", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}, Logger: shared.NewLogger(io.Discard)})

			if err := runner.writePlain("hello"); err == nil {
				t.Error("expected write error")
			}
		})

		t.Run("newline write fails after the payload", func(t *testing.T) {
			target := &bytes.Buffer{}
			lw := tu.NewLimitedWriter(1, 0, target)
			runner := NewRunner(RunnerOpts{Output: &lw, Logger: shared.NewLogger(io.Discard)})

			err := runner.writeJSON(map[string]int{"a": 1}, false)
			if err == nil || !strings.Contains(err.Error(), "newline") {
				t.Errorf("expected the newline write to fail, got %v", err)
			}
			if target.String() != "{\"a\":1}" {
				t.Errorf("payload = %q", target.String())
			}
		})
	})
}
