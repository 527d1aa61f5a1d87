package service

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/lkd-web/kurs/internal/markdown"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var ErrPageNotFound = errors.New("page not found")

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// Page is a markdown document from the content directory, rendered to HTML.
type Page struct {
	Slug  string
	Title string
	HTML  string
	Meta  map[string]any
}

// PageService serves static site pages (about, rules, contact) written as
// markdown files with optional frontmatter under <content>/pages.
type PageService struct {
	contentPath string
	parser      *markdown.Parser
	titler      cases.Caser
}

func NewPageService(contentPath string, parser *markdown.Parser) *PageService {
	return &PageService{
		contentPath: contentPath,
		parser:      parser,
		titler:      cases.Title(language.Turkish),
	}
}

// Page loads and renders the page with the given slug. Slugs are restricted
// to lowercase letters, digits and dashes so the path cannot escape the
// content directory.
func (s *PageService) Page(slug string) (*Page, error) {
	if !slugPattern.MatchString(slug) {
		return nil, ErrPageNotFound
	}

	path := filepath.Join(s.contentPath, "pages", slug+".md")
	source, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrPageNotFound
		}
		return nil, err
	}

	html, meta, err := s.parser.ParseWithFrontmatter(source)
	if err != nil {
		return nil, err
	}

	title := s.titler.String(strings.ReplaceAll(slug, "-", " "))
	if t, ok := meta["title"].(string); ok && t != "" {
		title = t
	}

	return &Page{
		Slug:  slug,
		Title: title,
		HTML:  string(html),
		Meta:  meta,
	}, nil
}

// Pages lists the slugs of all available pages.
func (s *PageService) Pages() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.contentPath, "pages"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	slugs := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		slugs = append(slugs, strings.TrimSuffix(entry.Name(), ".md"))
	}
	return slugs, nil
}
