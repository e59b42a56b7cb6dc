// Package optimize rewrites source code into greener equivalents using pattern-based rules.
package optimize

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/huangsam/greenscore/schema"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// DefaultChunkLines is the line count above which code is optimized chunk by chunk.
const DefaultChunkLines = 500

// Rule is one rewrite. Match is a cheap precondition; Rewrite returns the
// input unchanged when its pattern does not apply.
type Rule struct {
	Name        string
	Description string
	Match       func(code string) bool
	Rewrite     func(code string) string
}

// pipeline is the ordered rule list of a language. Aggressive rules run only
// when the main rules changed nothing and the code still looks inefficient.
type pipeline struct {
	rules      []Rule
	aggressive []Rule
	stillSlow  func(code string) bool
}

// Outcome is the result of optimizing a piece of code.
type Outcome struct {
	Code    string
	Applied []string
}

// Optimizer applies the rewrite pipeline of a language, chunking large inputs.
type Optimizer struct {
	workers    int
	chunkLines int
	logger     logrus.FieldLogger
	pipelines  map[schema.Language]pipeline
}

// Option configures an Optimizer.
type Option func(*Optimizer)

// WithWorkers bounds the number of chunks optimized concurrently.
func WithWorkers(n int) Option {
	return func(o *Optimizer) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithChunkLines sets the line count above which code is chunked.
func WithChunkLines(n int) Option {
	return func(o *Optimizer) {
		if n > 0 {
			o.chunkLines = n
		}
	}
}

// WithLogger sets the logger used to report failing rules.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *Optimizer) { o.logger = l }
}

// New creates an Optimizer with the built-in pipelines.
func New(opts ...Option) *Optimizer {
	o := &Optimizer{
		workers:    runtime.NumCPU(),
		chunkLines: DefaultChunkLines,
		logger:     logrus.StandardLogger(),
		pipelines: map[schema.Language]pipeline{
			schema.Python:     pythonPipeline,
			schema.JavaScript: javaScriptPipeline,
			schema.TypeScript: javaScriptPipeline,
			schema.Java:       javaPipeline,
			schema.Cpp:        cppPipeline,
			schema.C:          cPipeline,
			schema.Unknown:    genericPipeline,
		},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Rules returns the main rules of a language in application order.
func (o *Optimizer) Rules(language schema.Language) []Rule {
	return o.pipelineFor(language).rules
}

func (o *Optimizer) pipelineFor(language schema.Language) pipeline {
	if p, ok := o.pipelines[language]; ok {
		return p
	}
	return genericPipeline
}

// Optimize rewrites code. It only fails when ctx is done.
func (o *Optimizer) Optimize(ctx context.Context, code string, language schema.Language) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}

	chunks := Split(code, o.chunkLines)
	if len(chunks) == 1 {
		return o.optimizeChunk(code, language), nil
	}

	results := make([]Outcome, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for i, chunk := range chunks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = o.optimizeChunk(chunk, language)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Outcome{}, err
	}

	parts := make([]string, len(results))
	var applied []string
	seen := map[string]bool{}
	touched := false
	for i, r := range results {
		parts[i] = r.Code
		touched = touched || r.Code != chunks[i]
		for _, name := range r.Applied {
			if !seen[name] {
				seen[name] = true
				applied = append(applied, name)
			}
		}
	}
	// Join separates chunks with blank lines, so untouched input is returned as is.
	if !touched {
		return Outcome{Code: code}, nil
	}
	return Outcome{Code: Join(parts), Applied: applied}, nil
}

func (o *Optimizer) optimizeChunk(code string, language schema.Language) Outcome {
	p := o.pipelineFor(language)
	out, applied := o.apply(p.rules, code)
	if out == code && p.stillSlow != nil && p.stillSlow(code) {
		out, applied = o.apply(p.aggressive, code)
	}
	return Outcome{Code: out, Applied: applied}
}

// apply runs rules in order. A rule that panics leaves the code as it was.
func (o *Optimizer) apply(rules []Rule, code string) (string, []string) {
	var applied []string
	for _, rule := range rules {
		out, err := safeRewrite(rule, code)
		if err != nil {
			o.logger.WithError(err).WithField("rule", rule.Name).Warn("Skipping optimization rule")
			continue
		}
		if out != code {
			applied = append(applied, rule.Name)
			code = out
		}
	}
	return code, applied
}

func safeRewrite(rule Rule, code string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = code, fmt.Errorf("rule %s panicked: %v", rule.Name, r)
		}
	}()
	if rule.Match != nil && !rule.Match(code) {
		return code, nil
	}
	return rule.Rewrite(code), nil
}

// Changed reports whether optimization changed anything beyond surrounding whitespace.
func Changed(original, optimized string) bool {
	return strings.TrimSpace(original) != strings.TrimSpace(optimized)
}
