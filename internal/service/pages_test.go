package service

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lkd-web/kurs/internal/markdown"
)

func newPageFixture(t *testing.T) *PageService {
	t.Helper()

	dir := t.TempDir()
	pagesDir := filepath.Join(dir, "pages")
	err := os.MkdirAll(pagesDir, 0o755)
	if err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}

	err = os.WriteFile(filepath.Join(pagesDir, "about.md"), []byte("---\ntitle: Hakkında\n---\n\nMerhaba **dünya**.\n"), 0o644)
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}
	err = os.WriteFile(filepath.Join(pagesDir, "basvuru-kurallari.md"), []byte("Kurallar listesi.\n"), 0o644)
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}

	return NewPageService(dir, markdown.NewParser())
}

func TestPageRendersWithFrontmatterTitle(t *testing.T) {
	service := newPageFixture(t)

	page, err := service.Page("about")
	if err != nil {
		t.Fatalf("Page failed: %v", err)
	}
	if page.Title != "Hakkında" {
		t.Errorf("title = %s, want Hakkında", page.Title)
	}
	if !strings.Contains(page.HTML, "<strong>") {
		t.Errorf("html = %q, want rendered markdown", page.HTML)
	}
	if strings.Contains(page.HTML, "title:") {
		t.Error("frontmatter leaked into rendered html")
	}
}

func TestPageFallbackTitle(t *testing.T) {
	service := newPageFixture(t)

	page, err := service.Page("basvuru-kurallari")
	if err != nil {
		t.Fatalf("Page failed: %v", err)
	}
	if page.Title != "Basvuru Kurallari" {
		t.Errorf("title = %s, want slug-derived title", page.Title)
	}
}

func TestPageNotFoundAndTraversal(t *testing.T) {
	service := newPageFixture(t)

	_, err := service.Page("missing")
	if !errors.Is(err, ErrPageNotFound) {
		t.Errorf("err = %v, want ErrPageNotFound", err)
	}

	_, err = service.Page("../secret")
	if !errors.Is(err, ErrPageNotFound) {
		t.Errorf("traversal err = %v, want ErrPageNotFound", err)
	}
}

func TestPagesList(t *testing.T) {
	service := newPageFixture(t)

	slugs, err := service.Pages()
	if err != nil {
		t.Fatalf("Pages failed: %v", err)
	}
	if len(slugs) != 2 {
		t.Errorf("pages = %v, want 2 slugs", slugs)
	}
}
