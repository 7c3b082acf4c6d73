package engine

import "time"

// Kind tells how a renderer was created.
type Kind string

const (
	KindRender  Kind = "render"
	KindExtends Kind = "extends"
	KindPartial Kind = "partial"
)

// RenderEvent describes one finished render. Duration of an extending render
// includes the time spent rendering its layouts.
type RenderEvent struct {
	Path     string
	Kind     Kind
	Depth    int
	Duration time.Duration
	Err      error
}

// Observer receives an event after every render, including partials and
// layout hops.
type Observer interface {
	ObserveRender(event RenderEvent)
}

// ObserverFunc adapts a function into an Observer.
type ObserverFunc func(event RenderEvent)

// ObserveRender implements Observer.
func (f ObserverFunc) ObserveRender(event RenderEvent) {
	f(event)
}

type nopObserver struct{}

func (nopObserver) ObserveRender(RenderEvent) {}
