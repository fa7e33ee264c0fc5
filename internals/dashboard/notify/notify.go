// Package notify carries transient user notifications and confirmations
// between the dashboard workflows and whatever renders them.
package notify

import (
	"context"
	"log"
	"sync"
)

type Level string

const (
	Success Level = "success"
	Failure Level = "error"
)

type Toast struct {
	Level   Level
	Message string
}

// Notifier receives one toast per user-visible outcome.
type Notifier interface {
	Notify(t Toast)
}

// Confirmer asks the user to confirm a destructive action. false means declined.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// Log writes toasts to the standard logger.
type Log struct{}

func (Log) Notify(t Toast) { log.Printf("[TOAST] %s: %s", t.Level, t.Message) }

// Recorder keeps every toast; safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	toasts []Toast
}

func (r *Recorder) Notify(t Toast) {
	r.mu.Lock()
	r.toasts = append(r.toasts, t)
	r.mu.Unlock()
}

func (r *Recorder) Toasts() []Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Toast(nil), r.toasts...)
}

// Answer is a Confirmer that always gives the same answer and counts prompts.
type Answer struct {
	Yes     bool
	mu      sync.Mutex
	prompts []string
}

func (a *Answer) Confirm(_ context.Context, prompt string) (bool, error) {
	a.mu.Lock()
	a.prompts = append(a.prompts, prompt)
	a.mu.Unlock()
	return a.Yes, nil
}

func (a *Answer) Prompts() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.prompts...)
}
