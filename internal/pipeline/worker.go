package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgallion1/wikiplain/internal/metrics"
	"github.com/dgallion1/wikiplain/internal/parser"
	"github.com/dgallion1/wikiplain/internal/plaintext"
	"github.com/dgallion1/wikiplain/internal/stats"
	"github.com/dgallion1/wikiplain/internal/wikitree"
)

// Result is one finished conversion.
type Result struct {
	Title    string        `json:"title"`
	Text     string        `json:"-"`
	Sections int           `json:"sections"`
	Duration time.Duration `json:"-"`
}

// Worker parses uploads and renders document trees.
type Worker struct {
	renderer  *plaintext.Renderer
	stats     *stats.RenderStats
	metrics   *metrics.Metrics
	log       *slog.Logger
	parseOpts parser.Options
}

func NewWorker(renderer *plaintext.Renderer, st *stats.RenderStats, m *metrics.Metrics, log *slog.Logger, parseOpts parser.Options) *Worker {
	return &Worker{
		renderer:  renderer,
		stats:     st,
		metrics:   m,
		log:       log,
		parseOpts: parseOpts,
	}
}

// Process runs parse and render for a queued job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID, "filename", job.Filename)

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	page, err := w.parse(job.FileData(), job.Filename, job.Title)
	if err != nil {
		log.Error("parse failed", "error", err)
		w.fail(job, "parsing", fmt.Sprintf("parse: %s", err))
		return
	}
	// The tree replaces the upload from here on.
	job.SetFileData(nil)

	if err := ctx.Err(); err != nil {
		w.fail(job, "parsing", err.Error())
		return
	}

	// Phase 2: Render
	job.SetStatus(StatusRendering, "rendering")
	r := job.jobRenderer()
	if r == nil {
		r = w.renderer
	}
	res := w.render(page, r, sourceLabel(job.Filename))
	job.SetTitle(res.Title)
	job.SetResult(res.Text, res.Sections)
	job.SetStatus(StatusCompleted, "done")
	w.metrics.ObserveJob(string(StatusCompleted))
	log.Info("rendered document", "sections", res.Sections, "bytes", len(res.Text), "duration", res.Duration)
}

func (w *Worker) fail(job *Job, phase, msg string) {
	job.AddError(msg)
	job.SetStatus(StatusFailed, phase)
	w.metrics.ObserveJob(string(StatusFailed))
}

// Convert parses and renders an upload synchronously.
func (w *Worker) Convert(data []byte, filename, title string, r *plaintext.Renderer) (Result, error) {
	page, err := w.parse(data, filename, title)
	if err != nil {
		w.metrics.ObserveRender(sourceLabel(filename), 0, 0, err)
		return Result{}, err
	}
	if r == nil {
		r = w.renderer
	}
	return w.render(page, r, sourceLabel(filename)), nil
}

// RenderTree renders a decoded tree.
func (w *Worker) RenderTree(root wikitree.Node, r *plaintext.Renderer) Result {
	if r == nil {
		r = w.renderer
	}
	return w.render(root, r, "tree")
}

func (w *Worker) parse(data []byte, filename, title string) (*wikitree.Page, error) {
	p, err := parser.ForFile(filename, w.parseOpts)
	if err != nil {
		return nil, err
	}
	page, err := p.Parse(bytes.NewReader(data), filename)
	if err != nil {
		return nil, err
	}
	if title != "" {
		page.Title = title
	}
	return page, nil
}

func (w *Worker) render(root wikitree.Node, r *plaintext.Renderer, source string) Result {
	start := time.Now()
	text := r.Render(root)
	elapsed := time.Since(start)

	w.stats.Record(elapsed, len(text))
	w.metrics.ObserveRender(source, elapsed, len(text), nil)

	res := Result{Text: text, Sections: countSections(root), Duration: elapsed}
	if page, ok := root.(*wikitree.Page); ok {
		res.Title = page.Title
	}
	return res
}

// countSections counts every section in the tree, nested ones included.
func countSections(n wikitree.Node) int {
	count := 0
	var walk func([]wikitree.Node)
	walk = func(nodes []wikitree.Node) {
		for _, n := range nodes {
			switch n := n.(type) {
			case *wikitree.Section:
				count++
				walk(n.Body)
			case *wikitree.Page:
				walk(n.Children)
			case wikitree.NodeList:
				walk(n)
			}
		}
	}
	walk([]wikitree.Node{n})
	return count
}

func sourceLabel(filename string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
}
