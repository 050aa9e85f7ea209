package textsim

import (
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/analysis/token/camelcase"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/token/porter"
	"github.com/blevesearch/bleve/v2/analysis/token/stop"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"
	"github.com/blevesearch/bleve/v2/analysis/tokenmap"
)

const (
	// AnalyzerName is the name the source text analyzer is registered under.
	AnalyzerName = "bugloc_source"

	keywordMapName    = "bugloc_keywords"
	keywordFilterName = "bugloc_stop_keywords"
)

// Analyzer turns free text into index terms.
type Analyzer interface {
	Terms(text string) []string
}

// SourceKeywords are language keywords dropped from source and report text.
// They occur in nearly every file and carry no localization signal.
var SourceKeywords = []string{
	"abstract", "assert", "boolean", "break", "byte", "case", "catch", "char",
	"class", "const", "continue", "default", "do", "double", "else", "enum",
	"extends", "final", "finally", "float", "for", "goto", "if", "implements",
	"import", "instanceof", "int", "interface", "long", "native", "new", "null",
	"package", "private", "protected", "public", "return", "short", "static",
	"super", "switch", "synchronized", "this", "throw", "throws", "transient",
	"try", "void", "volatile", "while", "true", "false",
}

// BleveAnalyzer splits identifiers on camel case, lower cases, removes
// English stop words and language keywords, and applies Porter stemming.
type BleveAnalyzer struct {
	analyzer analysis.Analyzer
}

// NewBleveAnalyzer builds the analyzer from bleve's analysis registry.
func NewBleveAnalyzer() (*BleveAnalyzer, error) {
	indexMapping := bleve.NewIndexMapping()

	keywords := make([]interface{}, len(SourceKeywords))
	for i, k := range SourceKeywords {
		keywords[i] = k
	}
	if err := indexMapping.AddCustomTokenMap(keywordMapName, map[string]interface{}{
		"type":   tokenmap.Name,
		"tokens": keywords,
	}); err != nil {
		return nil, fmt.Errorf("failed to register keyword map: %w", err)
	}

	if err := indexMapping.AddCustomTokenFilter(keywordFilterName, map[string]interface{}{
		"type":           stop.Name,
		"stop_token_map": keywordMapName,
	}); err != nil {
		return nil, fmt.Errorf("failed to register keyword filter: %w", err)
	}

	if err := indexMapping.AddCustomAnalyzer(AnalyzerName, map[string]interface{}{
		"type":      custom.Name,
		"tokenizer": unicode.Name,
		"token_filters": []string{
			camelcase.Name,
			lowercase.Name,
			en.StopName,
			keywordFilterName,
			porter.Name,
		},
	}); err != nil {
		return nil, fmt.Errorf("failed to register analyzer: %w", err)
	}

	analyzer := indexMapping.AnalyzerNamed(AnalyzerName)
	if analyzer == nil {
		return nil, fmt.Errorf("analyzer %q not found", AnalyzerName)
	}

	return &BleveAnalyzer{analyzer: analyzer}, nil
}

// Terms returns the analyzed terms of text in order of appearance.
func (a *BleveAnalyzer) Terms(text string) []string {
	if text == "" {
		return nil
	}
	stream := a.analyzer.Analyze([]byte(text))
	terms := make([]string, 0, len(stream))
	for _, token := range stream {
		if len(token.Term) == 0 {
			continue
		}
		terms = append(terms, string(token.Term))
	}
	return terms
}
