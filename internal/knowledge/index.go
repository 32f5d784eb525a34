// Package knowledge provides keyword search over the bundled documentation
// snippets the agent can cite when answering questions.
package knowledge

import (
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
)

// Doc is one indexed documentation snippet.
type Doc struct {
	ID    string
	Title string
	Text  string
}

// Result is one search hit.
type Result struct {
	ID    string
	Title string
	Text  string
	Score float64
}

// Index provides BM25 keyword search over documentation snippets.
// The index is memory-only and rebuilt on startup.
type Index struct {
	index bleve.Index
}

// NewIndex creates an empty in-memory index.
func NewIndex() (*Index, error) {
	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create knowledge index: %w", err)
	}
	return &Index{index: index}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()

	docMapping := bleve.NewDocumentMapping()

	idField := bleve.NewTextFieldMapping()
	idField.Analyzer = keyword.Name
	idField.Store = true
	docMapping.AddFieldMappingsAt("id", idField)

	titleField := bleve.NewTextFieldMapping()
	titleField.Analyzer = standard.Name
	titleField.Store = true
	docMapping.AddFieldMappingsAt("title", titleField)

	textField := bleve.NewTextFieldMapping()
	textField.Analyzer = standard.Name
	textField.Store = true
	docMapping.AddFieldMappingsAt("text", textField)

	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

// Add indexes one snippet.
func (i *Index) Add(doc Doc) error {
	fields := map[string]any{
		"id":    doc.ID,
		"title": doc.Title,
		"text":  doc.Text,
	}
	return i.index.Index(doc.ID, fields)
}

// Search returns the top k snippets matching the query.
func (i *Index) Search(query string, k int) ([]Result, error) {
	q := bleve.NewMatchQuery(query)

	searchRequest := bleve.NewSearchRequest(q)
	searchRequest.Size = k
	searchRequest.Fields = []string{"title", "text"}

	searchResult, err := i.index.Search(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("knowledge search failed: %w", err)
	}

	results := make([]Result, 0, len(searchResult.Hits))
	for _, hit := range searchResult.Hits {
		result := Result{
			ID:    hit.ID,
			Score: hit.Score,
		}
		if title, ok := hit.Fields["title"].(string); ok {
			result.Title = title
		}
		if text, ok := hit.Fields["text"].(string); ok {
			result.Text = text
		}
		results = append(results, result)
	}
	return results, nil
}

// Close releases the index.
func (i *Index) Close() error {
	return i.index.Close()
}

// NewDefaultIndex builds an index preloaded with the built-in snippets.
func NewDefaultIndex() (*Index, error) {
	index, err := NewIndex()
	if err != nil {
		return nil, err
	}
	for _, doc := range builtinDocs {
		if err := index.Add(doc); err != nil {
			index.Close()
			return nil, fmt.Errorf("index builtin doc %s: %w", doc.ID, err)
		}
	}
	return index, nil
}
