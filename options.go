package overlay

import (
	"github.com/goliatone/go-overlay/content"
	"github.com/goliatone/go-overlay/pkg/activity"
	"github.com/goliatone/go-overlay/pkg/publish"
	"github.com/goliatone/go-overlay/pkg/state"
)

// DefaultRef is the store slot used when none is configured.
var DefaultRef = state.Ref{Domain: "site", Key: "content"}

// Option configures an Editor.
type Option func(*editorConfig)

type editorConfig struct {
	store     state.Store
	ref       state.Ref
	publisher publish.Publisher
	migrator  *content.Migrator
	logger    EventLogger
	hooks     activity.Hooks
	activity  *activity.Config
	emitter   *activity.Emitter
}

func applyOptions(opts []Option) editorConfig {
	cfg := editorConfig{
		ref:    DefaultRef,
		logger: noopEventLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.store == nil {
		cfg.store = state.NewMemoryStore()
	}
	if cfg.migrator == nil {
		cfg.migrator = content.NewMigrator()
	}
	activityCfg := activity.Config{Enabled: true}
	if cfg.activity != nil {
		activityCfg = *cfg.activity
	}
	cfg.emitter = activity.NewEmitter(cfg.hooks, activityCfg)
	return cfg
}

// WithStore sets the local overlay store. Defaults to an in-memory store.
func WithStore(store state.Store) Option {
	return func(cfg *editorConfig) {
		cfg.store = store
	}
}

// WithRef sets the store slot.
func WithRef(ref state.Ref) Option {
	return func(cfg *editorConfig) {
		cfg.ref = ref
	}
}

// WithPublisher sets the remote durable write. Without one, Save stops after
// the local write.
func WithPublisher(publisher publish.Publisher) Option {
	return func(cfg *editorConfig) {
		cfg.publisher = publisher
	}
}

// WithMigrator overrides the migration list applied on Load.
func WithMigrator(migrator *content.Migrator) Option {
	return func(cfg *editorConfig) {
		cfg.migrator = migrator
	}
}

// WithEventLogger attaches a logger. Passing nil restores the no-op logger.
func WithEventLogger(logger EventLogger) Option {
	return func(cfg *editorConfig) {
		if logger == nil {
			cfg.logger = noopEventLogger{}
			return
		}
		cfg.logger = logger
	}
}

// WithActivityHooks attaches activity hooks. Nil entries are dropped.
// Emission is enabled unless WithActivityConfig says otherwise.
func WithActivityHooks(hooks activity.Hooks) Option {
	normalized := cloneActivityHooks(hooks)
	return func(cfg *editorConfig) {
		cfg.hooks = normalized
	}
}

// WithActivityConfig sets the emission switch, default channel and actor.
func WithActivityConfig(config activity.Config) Option {
	return func(cfg *editorConfig) {
		cfg.activity = &config
	}
}

func cloneActivityHooks(hooks activity.Hooks) activity.Hooks {
	if len(hooks) == 0 {
		return nil
	}
	normalized := make([]activity.ActivityHook, 0, len(hooks))
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		normalized = append(normalized, hook)
	}
	if len(normalized) == 0 {
		return nil
	}
	return activity.Hooks(normalized)
}
