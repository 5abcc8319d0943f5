package internal

import (
	"github.com/jaehui/notisync/internal/store"
	"github.com/jaehui/notisync/internal/syncer"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *Config
	source syncer.EventSource
	store  store.RecordStore
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithEventSource overrides the Google Calendar source, mainly for tests.
func WithEventSource(src syncer.EventSource) Option {
	return func(a *application) {
		a.source = src
	}
}

// WithRecordStore overrides the configured record store, mainly for tests.
func WithRecordStore(st store.RecordStore) Option {
	return func(a *application) {
		a.store = st
	}
}
