package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// BatchProgress renders a single-line progress display for a batch
// scraping run on stderr.
type BatchProgress struct {
	mu        sync.Mutex
	out       io.Writer
	total     int
	succeeded int
	failed    int
	current   string
	startTime time.Time
}

// NewBatchProgress creates a progress display for total items.
func NewBatchProgress(total int) *BatchProgress {
	return &BatchProgress{
		out:       os.Stderr,
		total:     total,
		startTime: time.Now(),
	}
}

// SetWriter redirects output. Used by tests.
func (p *BatchProgress) SetWriter(w io.Writer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.out = w
}

// Start marks the start of one item.
func (p *BatchProgress) Start(url string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = shortenURL(url)
	p.print()
}

// Complete marks one item as successfully scraped.
func (p *BatchProgress) Complete() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.succeeded++
	p.current = ""
	p.print()
}

// Fail marks one item as failed.
func (p *BatchProgress) Fail() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failed++
	p.current = ""
	p.print()
}

// Done finishes the progress line and prints a summary.
func (p *BatchProgress) Done() {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out)
	elapsed := time.Since(p.startTime).Round(time.Second)
	fmt.Fprintf(p.out, "%s %d/%d scraped, %d failed in %s\n",
		Green("done:"), p.succeeded, p.total, p.failed, elapsed)
}

func (p *BatchProgress) print() {
	processed := p.succeeded + p.failed
	barWidth := 20
	filled := 0
	if p.total > 0 {
		filled = processed * barWidth / p.total
	}
	bar := strings.Repeat("━", filled) + strings.Repeat("─", barWidth-filled)

	line := fmt.Sprintf("\r[%s] %d/%d", bar, processed, p.total)
	if p.failed > 0 {
		line += " • " + Red(fmt.Sprintf("%d failed", p.failed))
	}
	if p.current != "" {
		line += " • " + Dim(p.current)
	}
	// Clear the previous line before redrawing
	fmt.Fprintf(p.out, "\r%s%s", strings.Repeat(" ", 100)+"\r", line)
}

func shortenURL(url string) string {
	if len(url) <= 48 {
		return url
	}
	return "…" + url[len(url)-47:]
}
