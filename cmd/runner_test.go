package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/tvplus/internal/shared"
	tu "github.com/desertthunder/tvplus/internal/testing"
)

const catalogJSON = `{"regions": {
  "us": {"name": "United States", "channels": {"5": {"name": "Test", "chno": 5}, "6": {"name": "apple"}}},
  "gb": {"channels": {"5": {"name": "Test"}}}
}}`

// newCatalogServer serves the gzipped catalog at /channels.json.gz and answers HEAD on stream paths.
func newCatalogServer(t *testing.T) *httptest.Server {
	t.Helper()
	payload := tu.Gzip(t, []byte(catalogJSON))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/channels.json.gz":
			w.Write(payload)
		case r.URL.Path == "/broken.json.gz":
			w.WriteHeader(http.StatusInternalServerError)
		case r.URL.Path == "/sam-5.m3u8":
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func writeConfig(t *testing.T, server *httptest.Server, catalogPath, outDir string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	content := fmt.Sprintf(`[source]
catalog_url = "%s%s"
timeout_seconds = 5

[playlist]
regions = ["us", "de", "all"]
stream_url_template = "%s/sam-{id}.m3u8"
output_dir = %q

[probe]
rate_limit = 1000.0
timeout_seconds = 2
`, server.URL, catalogPath, server.URL, outDir)

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func newTestRunner(output *bytes.Buffer) *Runner {
	return NewRunner(RunnerOpts{
		Logger: shared.NewLogger(&bytes.Buffer{}),
		Output: output,
	})
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
		})

		t.Run("with nil dependencies uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
			if runner.httpClient != http.DefaultClient {
				t.Error("expected httpClient to default to http.DefaultClient")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil || !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		if err := runner.writePlain("hello %s", "world"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if output.String() != "hello world" {
			t.Errorf("expected 'hello world', got %q", output.String())
		}

		failing := NewRunner(RunnerOpts{Output: &tu.FWriter{}})
		if err := failing.writePlain("test"); err == nil {
			t.Error("expected error from failing writer")
		}
	})

	t.Run("writePlainHeader", func(t *testing.T) {
		output := &bytes.Buffer{}
		if err := NewRunner(RunnerOpts{Output: output}).writePlainHeader("Title"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "\nTitle\n") {
			t.Errorf("expected title line, got %q", output.String())
		}

		failing := NewRunner(RunnerOpts{Output: &tu.FWriter{}})
		if err := failing.writePlainHeader("Title"); err == nil {
			t.Error("expected error from failing writer")
		}
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		if len(commands) != 4 {
			t.Errorf("expected 4 commands, got %d", len(commands))
		}

		for i, cmd := range commands {
			if cmd == nil {
				t.Errorf("command at index %d is nil", i)
			}
		}
	})
}

func TestGenerate(t *testing.T) {
	server := newCatalogServer(t)

	t.Run("root command generates configured regions", func(t *testing.T) {
		outDir := filepath.Join(t.TempDir(), "out")
		configPath := writeConfig(t, server, "/channels.json.gz", outDir)
		output := &bytes.Buffer{}

		err := newTestRunner(output).app().Run(context.Background(), []string{"tvplus", "--config", configPath})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		tu.AssertFileExists(t, filepath.Join(outDir, "samsungtvplus_us.m3u"))
		tu.AssertFileExists(t, filepath.Join(outDir, "samsungtvplus_all.m3u"))
		tu.AssertNotExists(t, filepath.Join(outDir, "samsungtvplus_de.m3u"))

		content := tu.MustReadFile(t, filepath.Join(outDir, "samsungtvplus_us.m3u"))
		lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
		if len(lines) != 5 {
			t.Fatalf("expected 5 lines, got %d:\n%s", len(lines), content)
		}
		if !strings.HasSuffix(lines[1], ",apple") || !strings.HasSuffix(lines[3], ",Test") {
			t.Errorf("expected apple before Test:\n%s", content)
		}
		if lines[4] != server.URL+"/sam-5.m3u8" {
			t.Errorf("unexpected stream line %s", lines[4])
		}

		all := tu.MustReadFile(t, filepath.Join(outDir, "samsungtvplus_all.m3u"))
		if !strings.Contains(all, `channel-id="5-gb"`) || !strings.Contains(all, `channel-id="5-us"`) {
			t.Errorf("expected composite keys in all playlist:\n%s", all)
		}

		if !strings.Contains(output.String(), "skipped") {
			t.Errorf("expected skipped region in summary, got %q", output.String())
		}
	})

	t.Run("region and output flags override config", func(t *testing.T) {
		configPath := writeConfig(t, server, "/channels.json.gz", filepath.Join(t.TempDir(), "unused"))
		outDir := filepath.Join(t.TempDir(), "override")

		args := []string{"tvplus", "--config", configPath, "--region", "gb", "--output", outDir, "generate"}
		if err := newTestRunner(&bytes.Buffer{}).app().Run(context.Background(), args); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		tu.AssertFileExists(t, filepath.Join(outDir, "samsungtvplus_gb.m3u"))
		tu.AssertNotExists(t, filepath.Join(outDir, "samsungtvplus_us.m3u"))
	})

	t.Run("unavailable catalog writes nothing", func(t *testing.T) {
		outDir := filepath.Join(t.TempDir(), "out")
		configPath := writeConfig(t, server, "/broken.json.gz", outDir)

		err := newTestRunner(&bytes.Buffer{}).app().Run(context.Background(), []string{"tvplus", "--config", configPath})
		if !errors.Is(err, shared.ErrMissingCatalog) {
			t.Errorf("expected ErrMissingCatalog, got %v", err)
		}
		tu.AssertNotExists(t, outDir)
	})

	t.Run("missing explicit config file", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "absent.toml")

		err := newTestRunner(&bytes.Buffer{}).app().Run(context.Background(), []string{"tvplus", "--config", configPath})
		if !errors.Is(err, shared.ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})

	t.Run("summary write failure is returned", func(t *testing.T) {
		outDir := filepath.Join(t.TempDir(), "out")
		configPath := writeConfig(t, server, "/channels.json.gz", outDir)
		runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(&bytes.Buffer{}), Output: &tu.FWriter{}})

		err := runner.app().Run(context.Background(), []string{"tvplus", "--config", configPath})
		if err == nil || !strings.Contains(err.Error(), "failed to write output") {
			t.Errorf("expected output write error, got %v", err)
		}
		tu.AssertFileExists(t, filepath.Join(outDir, "samsungtvplus_us.m3u"))
	})

	t.Run("invalid config file", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[playlist]\nregions = []\n"), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		err := newTestRunner(&bytes.Buffer{}).app().Run(context.Background(), []string{"tvplus", "--config", configPath})
		if !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestRegions(t *testing.T) {
	server := newCatalogServer(t)
	configPath := writeConfig(t, server, "/channels.json.gz", t.TempDir())

	t.Run("json output", func(t *testing.T) {
		output := &bytes.Buffer{}
		args := []string{"tvplus", "--config", configPath, "regions", "--json"}
		if err := newTestRunner(output).app().Run(context.Background(), args); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var summaries []map[string]any
		if err := json.Unmarshal(output.Bytes(), &summaries); err != nil {
			t.Fatalf("expected JSON output, got %q: %v", output.String(), err)
		}
		if len(summaries) != 2 || summaries[0]["Code"] != "gb" {
			t.Errorf("unexpected summaries %v", summaries)
		}
	})

	t.Run("plain output", func(t *testing.T) {
		output := &bytes.Buffer{}
		args := []string{"tvplus", "--config", configPath, "regions"}
		if err := newTestRunner(output).app().Run(context.Background(), args); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if !strings.Contains(output.String(), "United States") {
			t.Errorf("expected region name in output, got %q", output.String())
		}
	})
	t.Run("plain output write failure", func(t *testing.T) {
		limited := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
		runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(&bytes.Buffer{}), Output: &limited})

		err := runner.app().Run(context.Background(), []string{"tvplus", "--config", configPath, "regions"})
		if err == nil || !strings.Contains(err.Error(), "failed to write output") {
			t.Errorf("expected output write error, got %v", err)
		}
	})
}

func TestProbe(t *testing.T) {
	server := newCatalogServer(t)
	configPath := writeConfig(t, server, "/channels.json.gz", t.TempDir())

	t.Run("reports reachable streams", func(t *testing.T) {
		output := &bytes.Buffer{}
		args := []string{"tvplus", "--config", configPath, "probe", "us"}
		if err := newTestRunner(output).app().Run(context.Background(), args); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if !strings.Contains(output.String(), "1/2 streams reachable") {
			t.Errorf("unexpected probe output %q", output.String())
		}
		if !strings.Contains(output.String(), "status 404") {
			t.Errorf("expected failed stream in output, got %q", output.String())
		}
	})

	t.Run("missing region code", func(t *testing.T) {
		args := []string{"tvplus", "--config", configPath, "probe"}
		err := newTestRunner(&bytes.Buffer{}).app().Run(context.Background(), args)
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})
}

func TestConfigInit(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	args := []string{"tvplus", "--config", configPath, "config", "init"}

	if err := newTestRunner(&bytes.Buffer{}).app().Run(context.Background(), args); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	tu.AssertFileExists(t, configPath)

	if _, err := shared.LoadConfig(configPath); err != nil {
		t.Errorf("expected created config to load, got %v", err)
	}

	if err := newTestRunner(&bytes.Buffer{}).app().Run(context.Background(), args); err == nil {
		t.Error("expected error when config already exists")
	}
}
