package nav

import (
	"sort"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/foxcasts/pkg/debug"
)

// Dispatcher owns the one real key subscription and fans classified keys out
// to attached controllers, highest tier first and, within a tier, most
// recently attached first. The first controller that claims a key stops the
// fan-out, so no key is handled twice.
//
// Dispatcher is not safe for concurrent use; drive it from the Update loop.
type Dispatcher struct {
	reg        *Registry
	classifier Classifier
	attached   []*Controller
	seq        uint64
	log        debug.Logger
}

// NewDispatcher returns a dispatcher over reg.
func NewDispatcher(reg *Registry, classifier Classifier) *Dispatcher {
	return &Dispatcher{
		reg:        reg,
		classifier: classifier,
		log:        debug.With("component", "nav", "part", "dispatcher"),
	}
}

// Registry returns the registry controllers read.
func (d *Dispatcher) Registry() *Registry {
	return d.reg
}

// Classifier returns the active classifier.
func (d *Dispatcher) Classifier() Classifier {
	return d.classifier
}

// SetClassifier swaps the classifier, e.g. after key bindings change.
func (d *Dispatcher) SetClassifier(c Classifier) {
	d.classifier = c
}

// Arbiter returns an arbiter over the dispatcher's registry.
func (d *Dispatcher) Arbiter() Arbiter {
	return NewArbiter(d.reg)
}

// Attach creates a controller for tier and routes keys to it until its
// Detach is called.
func (d *Dispatcher) Attach(tier Tier, opts Options) *Controller {
	c := NewController(d.reg, tier, opts)
	d.seq++
	c.attachSeq = d.seq
	c.detach = func() { d.remove(c) }

	d.attached = append(d.attached, c)
	sort.SliceStable(d.attached, func(i, j int) bool {
		a, b := d.attached[i], d.attached[j]
		if a.tier != b.tier {
			return a.tier > b.tier
		}
		return a.attachSeq > b.attachSeq
	})
	d.log.Debug("attach", "controller", c.Name(), "tier", tier, "attached", len(d.attached))
	return c
}

func (d *Dispatcher) remove(c *Controller) {
	for i, cur := range d.attached {
		if cur == c {
			d.attached = append(d.attached[:i], d.attached[i+1:]...)
			d.log.Debug("detach", "controller", c.Name(), "attached", len(d.attached))
			return
		}
	}
}

// Len returns the number of attached controllers.
func (d *Dispatcher) Len() int {
	return len(d.attached)
}

// Dispatch offers k to the attached controllers and reports whether one
// claimed it.
func (d *Dispatcher) Dispatch(k Key) bool {
	if !k.Recognized() {
		return false
	}
	// Handlers may detach controllers (e.g. by navigating away), so iterate
	// over a copy.
	controllers := append([]*Controller(nil), d.attached...)
	for _, c := range controllers {
		if c.HandleKey(k) {
			d.log.Debug("claimed", "key", k, "controller", c.Name())
			return true
		}
	}
	return false
}

// HandleKeyMsg classifies msg and dispatches it. It returns the classified
// key so the host can act on keys no controller claimed (soft keys, Back).
func (d *Dispatcher) HandleKeyMsg(msg tea.KeyMsg, ctx InputContext) (Key, bool) {
	k := d.classifier.Classify(msg, ctx)
	if !k.Recognized() {
		return k, false
	}
	return k, d.Dispatch(k)
}

// Refresh resolves pending seeds of every attached controller.
func (d *Dispatcher) Refresh() {
	for _, c := range append([]*Controller(nil), d.attached...) {
		c.Refresh()
	}
}
