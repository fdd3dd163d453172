// Package linguistics derives lexical, syntactic and coherence metrics from a
// check-in transcript.
package linguistics

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/jdkato/prose/v2"

	"github.com/cognora/checkin-pipeline/model"
)

const neutralCoherence = 0.5

// EntityMode selects how named entities are counted.
type EntityMode int

const (
	// EntityRule counts distinct capitalised words that do not open a sentence.
	EntityRule EntityMode = iota
	// EntityModel counts distinct entities found by the prose NER model.
	EntityModel
)

// ParseEntityMode maps the config value; anything but "model" is EntityRule.
func ParseEntityMode(s string) EntityMode {
	if strings.EqualFold(strings.TrimSpace(s), "model") {
		return EntityModel
	}
	return EntityRule
}

var (
	nounTags = map[string]bool{"NN": true, "NNS": true, "NNP": true, "NNPS": true}
	verbTags = map[string]bool{"VB": true, "VBD": true, "VBG": true, "VBN": true, "VBP": true, "VBZ": true}
	adjTags  = map[string]bool{"JJ": true, "JJR": true, "JJS": true}
)

type token struct {
	text string
	tag  string
}

type document struct {
	tokens    []token
	sentences []string
	entities  []string
}

type parseFunc func(text string, extract bool) (document, error)

// Extractor computes LinguisticMetrics. It is safe for concurrent use.
type Extractor struct {
	mode  EntityMode
	parse parseFunc
}

type Options struct {
	EntityMode EntityMode
}

func New(opts Options) *Extractor {
	return &Extractor{mode: opts.EntityMode, parse: proseParse}
}

// Extract never fails: an empty transcript yields zero counts with neutral
// coherence, and an internal failure yields fallback metrics with Error set.
func (e *Extractor) Extract(text string) (m model.LinguisticMetrics) {
	if strings.TrimSpace(text) == "" {
		return model.LinguisticMetrics{CoherenceScore: neutralCoherence}
	}

	defer func() {
		if r := recover(); r != nil {
			m = fallback(text, fmt.Errorf("panic: %v", r))
		}
	}()

	doc, err := e.parse(text, e.mode == EntityModel)
	if err != nil {
		return fallback(text, err)
	}
	return e.measure(doc)
}

func (e *Extractor) measure(doc document) model.LinguisticMetrics {
	var words []string
	var nouns, verbs, adjs int
	for _, t := range doc.tokens {
		if !isAlpha(t.text) {
			continue
		}
		words = append(words, strings.ToLower(t.text))
		switch {
		case nounTags[t.tag]:
			nouns++
		case verbTags[t.tag]:
			verbs++
		case adjTags[t.tag]:
			adjs++
		}
	}

	var sentences []string
	for _, s := range doc.sentences {
		if s = strings.TrimSpace(s); s != "" {
			sentences = append(sentences, s)
		}
	}

	m := model.LinguisticMetrics{
		WordCount:       len(words),
		UniqueWordCount: distinct(words),
		SentenceCount:   len(sentences),
		CoherenceScore:  neutralCoherence,
	}
	if m.WordCount > 0 {
		total := float64(m.WordCount)
		m.LexicalDiversity = round(float64(m.UniqueWordCount)/total, 3)
		m.NounRatio = round(float64(nouns)/total, 3)
		m.VerbRatio = round(float64(verbs)/total, 3)
		m.AdjRatio = round(float64(adjs)/total, 3)
	}
	if m.SentenceCount > 0 {
		m.AvgSentenceLength = round(float64(m.WordCount)/float64(m.SentenceCount), 2)
	}

	if e.mode == EntityModel {
		m.NamedEntityCount = distinct(doc.entities)
	} else {
		m.NamedEntityCount = ruleEntities(sentences)
	}
	m.CoherenceScore = round(coherence(sentences), 3)
	return m
}

// coherence is 1 - variance/mean² of sentence lengths, floored at 0.
func coherence(sentences []string) float64 {
	if len(sentences) < 2 {
		return neutralCoherence
	}
	lengths := make([]float64, len(sentences))
	var sum float64
	for i, s := range sentences {
		lengths[i] = float64(len(splitWords(s)))
		sum += lengths[i]
	}
	mean := sum / float64(len(lengths))
	if mean == 0 {
		return neutralCoherence
	}
	var variance float64
	for _, l := range lengths {
		d := l - mean
		variance += d * d
	}
	variance /= float64(len(lengths))
	return math.Min(1, math.Max(0, 1-variance/(mean*mean)))
}

func ruleEntities(sentences []string) int {
	seen := make(map[string]struct{})
	for _, s := range sentences {
		for i, w := range splitWords(s) {
			if i == 0 || !isCapitalised(w) {
				continue
			}
			seen[w] = struct{}{}
		}
	}
	return len(seen)
}

func fallback(text string, err error) model.LinguisticMetrics {
	fields := strings.Fields(text)
	return model.LinguisticMetrics{
		Error:             "analysis failed: " + err.Error(),
		WordCount:         len(fields),
		UniqueWordCount:   distinct(fields),
		LexicalDiversity:  0.5,
		SentenceCount:     len(strings.Split(text, ".")),
		AvgSentenceLength: 10,
		NounRatio:         0.3,
		VerbRatio:         0.2,
		AdjRatio:          0.1,
		CoherenceScore:    neutralCoherence,
	}
}

func proseParse(text string, extract bool) (document, error) {
	doc, err := prose.NewDocument(text, prose.WithExtraction(extract))
	if err != nil {
		return document{}, fmt.Errorf("prose document: %w", err)
	}
	var out document
	for _, t := range doc.Tokens() {
		out.tokens = append(out.tokens, token{text: t.Text, tag: t.Tag})
	}
	for _, s := range doc.Sentences() {
		out.sentences = append(out.sentences, s.Text)
	}
	if extract {
		for _, ent := range doc.Entities() {
			out.entities = append(out.entities, ent.Text)
		}
	}
	return out, nil
}

func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return !unicode.IsLetter(r) })
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// isCapitalised matches an upper-case letter followed by one or more
// lower-case letters.
func isCapitalised(w string) bool {
	runes := []rune(w)
	if len(runes) < 2 || !unicode.IsUpper(runes[0]) {
		return false
	}
	for _, r := range runes[1:] {
		if !unicode.IsLower(r) {
			return false
		}
	}
	return true
}

func distinct(items []string) int {
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		seen[it] = struct{}{}
	}
	return len(seen)
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
