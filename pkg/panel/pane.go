package panel

import (
	"sync"

	"csscontexts/pkg/classify"
)

// DefaultTitle is the title of the contexts pane.
const DefaultTitle = "CSS Contexts"

// Pane renders the classification of the selected element. Each selection
// change replaces the previous output entirely.
type Pane struct {
	Title string

	classifier *classify.Classifier
	renderer   Renderer

	mu       sync.Mutex
	last     string
	lastErr  error
	onUpdate []func(string)
}

// NewPane returns a detached pane; an empty title means DefaultTitle.
func NewPane(title string, classifier *classify.Classifier, renderer Renderer) *Pane {
	if title == "" {
		title = DefaultTitle
	}
	return &Pane{Title: title, classifier: classifier, renderer: renderer}
}

// Attach renders the host's current selection and subscribes to changes.
// The returned function detaches the pane.
func (p *Pane) Attach(h *Host) (detach func()) {
	p.Update(h.Selected())
	return h.OnSelectionChanged(p.Update)
}

// OnUpdate registers fn to receive every new rendering.
func (p *Pane) OnUpdate(fn func(string)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onUpdate = append(p.onUpdate, fn)
}

// Update classifies el and renders the result.
func (p *Pane) Update(el classify.Element) {
	out, err := p.renderer.Render(p.classifier.Classify(el))

	p.mu.Lock()
	p.last, p.lastErr = out, err
	callbacks := append([]func(string){}, p.onUpdate...)
	p.mu.Unlock()

	for _, fn := range callbacks {
		fn(out)
	}
}

// Last returns the latest rendering and the error, if any, rendering it.
func (p *Pane) Last() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last, p.lastErr
}
