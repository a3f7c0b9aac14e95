package renderer

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"

	"github.com/gogpu/gg"
)

// offscreenPresenter keeps the most recent frame in memory and, when an output directory is set,
// writes every frame as a numbered PNG file.
type offscreenPresenter struct {
	mu *sync.Mutex

	outputDir string
	prefix    string

	width, height int
	count         int
	last          *image.RGBA
}

var _ Presenter = &offscreenPresenter{}

func newOffscreenPresenter(outputDir, prefix string) *offscreenPresenter {
	return &offscreenPresenter{
		mu:        &sync.Mutex{},
		outputDir: outputDir,
		prefix:    prefix,
	}
}

func (p *offscreenPresenter) Configure(width, height int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.outputDir != "" {
		if err := os.MkdirAll(p.outputDir, 0o755); err != nil {
			return fmt.Errorf("failed to create frame directory: %w", err)
		}
	}
	p.width, p.height = width, height
	return nil
}

func (p *offscreenPresenter) Present(frame *gg.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.outputDir != "" {
		path := filepath.Join(p.outputDir, fmt.Sprintf("%s-%05d.png", p.prefix, p.count))
		if err := frame.SavePNG(path); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}

	img, _ := frame.Image().(*image.RGBA)
	p.last = img
	p.count++
	return nil
}

func (p *offscreenPresenter) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.last = nil
	return nil
}

// Last returns the most recently presented frame, or nil.
func (p *offscreenPresenter) Last() *image.RGBA {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}
