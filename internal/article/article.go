package article

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
	"github.com/kovalyov-valentin/blog-auto-review/internal/model"
)

// ErrNotFound возвращается, если на странице нет элемента article.
var ErrNotFound = errors.New("no article content found")

const selector = "article"

// Больше элементов readability не разбирает
const maxReadableElems = 50000

type Extractor struct {
	client    *http.Client
	converter *md.Converter
	// Если article нет, пробуем вытащить основной текст через readability
	readabilityFallback bool
	maxReadableElems    int
}

func NewExtractor(client *http.Client, readabilityFallback bool) *Extractor {
	if client == nil {
		client = http.DefaultClient
	}

	return &Extractor{
		client:              client,
		converter:           md.NewConverter("", true, nil),
		readabilityFallback: readabilityFallback,
		maxReadableElems:    maxReadableElems,
	}
}

// Extract скачивает страницу и возвращает первый article в виде markdown.
func (e *Extractor) Extract(ctx context.Context, pageURL string) (model.ArticleDocument, error) {
	body, err := e.download(ctx, pageURL)
	if err != nil {
		return model.ArticleDocument{}, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return model.ArticleDocument{}, fmt.Errorf("parse html %s: %w", pageURL, err)
	}

	selection := doc.Find(selector).First()
	if selection.Length() == 0 {
		if e.readabilityFallback {
			return e.extractReadable(body, pageURL)
		}
		return model.ArticleDocument{}, ErrNotFound
	}

	html, err := goquery.OuterHtml(selection)
	if err != nil {
		return model.ArticleDocument{}, fmt.Errorf("render article %s: %w", pageURL, err)
	}

	return model.ArticleDocument{
		URL:      pageURL,
		HTML:     html,
		Markdown: cleanText(e.converter.Convert(selection)),
	}, nil
}

func (e *Extractor) extractReadable(body []byte, pageURL string) (model.ArticleDocument, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return model.ArticleDocument{}, fmt.Errorf("parse url %s: %w", pageURL, err)
	}

	parser := readability.NewParser()
	parser.MaxElemsToParse = e.maxReadableElems

	doc, err := parser.Parse(bytes.NewReader(body), u)
	if err != nil {
		return model.ArticleDocument{}, fmt.Errorf("readability %s: %w", pageURL, err)
	}
	if strings.TrimSpace(doc.TextContent) == "" {
		return model.ArticleDocument{}, ErrNotFound
	}

	markdown, err := e.converter.ConvertString(doc.Content)
	if err != nil {
		return model.ArticleDocument{}, fmt.Errorf("convert readable content %s: %w", pageURL, err)
	}

	return model.ArticleDocument{
		URL:      pageURL,
		HTML:     doc.Content,
		Markdown: cleanText(markdown),
	}, nil
}

func (e *Extractor) download(ctx context.Context, pageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", pageURL, resp.Status)
	}

	return io.ReadAll(resp.Body)
}

// Конвертер оставляет много пустых строк подряд, схлопываем их до одной
var redundantNewLines = regexp.MustCompile(`\n{3,}`)

func cleanText(text string) string {
	return strings.TrimSpace(redundantNewLines.ReplaceAllString(text, "\n\n"))
}
