package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-markitup/internal/di"
	"github.com/goliatone/go-markitup/internal/documents"
	"github.com/goliatone/go-markitup/internal/runtimeconfig"
)

func TestRunRejectsUnknownCommand(t *testing.T) {
	err := run(context.Background(), []string{"publish"}, strings.NewReader(""), &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Fatalf("expected unknown command error, got %v", err)
	}
	if err := run(context.Background(), nil, strings.NewReader(""), &bytes.Buffer{}); err == nil {
		t.Fatal("expected missing command error")
	}
}

func TestRunRenderReadsStdin(t *testing.T) {
	var out bytes.Buffer
	if err := run(context.Background(), []string{"render"}, strings.NewReader("**bold**"), &out); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out.String(), "<strong>bold</strong>") {
		t.Fatalf("expected rendered markdown, got %q", out.String())
	}
}

func TestRunRenderWithFormatterAndFiles(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.txt")
	output := filepath.Join(dir, "out.html")
	if err := os.WriteFile(input, []byte("a < b"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	args := []string{"render", "--formatter", "plain", "--input", input, "--output", output}
	if err := run(context.Background(), args, strings.NewReader(""), &bytes.Buffer{}); err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), "a &lt; b") {
		t.Fatalf("expected escaped plain output, got %q", data)
	}
}

func TestRunRenderUnknownFormatter(t *testing.T) {
	err := run(context.Background(), []string{"render", "-f", "textile"}, strings.NewReader("x"), &bytes.Buffer{})
	if err == nil {
		t.Fatal("expected unknown formatter error")
	}
}

func TestRunRenderListsFormatters(t *testing.T) {
	var out bytes.Buffer
	if err := run(context.Background(), []string{"render", "--list"}, strings.NewReader(""), &out); err != nil {
		t.Fatalf("render --list: %v", err)
	}
	for _, name := range []string{"markdown", "plain", "html"} {
		if !strings.Contains(out.String(), name+"\t") {
			t.Fatalf("expected %s in listing, got %q", name, out.String())
		}
	}
}

func TestRunRerenderUsesCommandHandler(t *testing.T) {
	container, err := di.NewContainer(runtimeconfig.DefaultConfig())
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	if _, err := container.DocumentService().Create(context.Background(), documents.CreateDocumentInput{Slug: "one", Body: "*x*"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	original := containerBuilder
	defer func() { containerBuilder = original }()
	containerBuilder = func(runtimeconfig.Config) (*di.Container, error) {
		return container, nil
	}

	var out bytes.Buffer
	args := []string{"rerender", "--formatter", "html", "--dry-run"}
	if err := run(context.Background(), args, strings.NewReader(""), &out); err != nil {
		t.Fatalf("rerender: %v", err)
	}
	if got := out.String(); got != "processed 1 documents, would update 1\n" {
		t.Fatalf("unexpected rerender output %q", got)
	}
}

func TestRunRerenderRejectsOptionsWithoutFormatter(t *testing.T) {
	err := run(context.Background(), []string{"rerender", "--option", "hard_wraps=true"}, strings.NewReader(""), &bytes.Buffer{})
	if err == nil {
		t.Fatal("expected validation error for options without formatter")
	}
}

func TestParseOptionsDecodesScalars(t *testing.T) {
	opts, err := parseOptions(map[string]string{"hard_wraps": "true", "style": "monokai"})
	if err != nil {
		t.Fatalf("parse options: %v", err)
	}
	if opts["hard_wraps"] != true {
		t.Fatalf("expected bool option, got %#v", opts["hard_wraps"])
	}
	if opts["style"] != "monokai" {
		t.Fatalf("expected string option, got %#v", opts["style"])
	}
}

func TestRunMigrateMemoryIsNoop(t *testing.T) {
	var out bytes.Buffer
	if err := run(context.Background(), []string{"migrate"}, strings.NewReader(""), &out); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if !strings.Contains(out.String(), "nothing to migrate") {
		t.Fatalf("unexpected migrate output %q", out.String())
	}
}

func TestRunMigrateSQLiteFromConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "markitup.yaml")
	config := "storage:\n  driver: sqlite\n  dsn: \"file:" + filepath.Join(dir, "docs.db") + "?_fk=1\"\n"
	if err := os.WriteFile(path, []byte(config), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	var out bytes.Buffer
	if err := run(context.Background(), []string{"migrate", "-c", path}, strings.NewReader(""), &out); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if !strings.Contains(out.String(), "up to date") {
		t.Fatalf("unexpected migrate output %q", out.String())
	}
}

func TestNewRouterServesPreview(t *testing.T) {
	container, err := di.NewContainer(runtimeconfig.DefaultConfig())
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	defer container.Close()

	router, err := newRouter(container)
	if err != nil {
		t.Fatalf("new router: %v", err)
	}

	form := url.Values{"data": {"_hi_"}}
	req := httptest.NewRequest(http.MethodPost, "/markitup/preview/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "<em>hi</em>") {
		t.Fatalf("expected rendered preview, got %q", rec.Body.String())
	}
}
