package pagecache

import "log/slog"

// Option configures a table during construction.
type Option[Key comparable, Value any] func(*settings[Key, Value])

// EvictHook is called with each entry a table evicts.
type EvictHook[Key comparable, Value any] func(key Key, value Value)

type settings[Key comparable, Value any] struct {
	logger  *slog.Logger
	onEvict EvictHook[Key, Value]
}

func newSettings[Key comparable, Value any](options []Option[Key, Value]) settings[Key, Value] {
	set := settings[Key, Value]{
		logger: slog.New(slog.DiscardHandler),
	}
	for _, apply := range options {
		apply(&set)
	}
	return set
}

// WithLogger sets the logger that receives admission,
// eviction and allocation failure records.
// Records are discarded by default.
func WithLogger[Key comparable, Value any](logger *slog.Logger) Option[Key, Value] {
	return func(set *settings[Key, Value]) {
		if logger != nil {
			set.logger = logger
		}
	}
}

// WithEvictHook registers a function to be called
// for every entry removed by replacement or [Table.EvictAll].
// The hook is called after the table's lock has been released.
func WithEvictHook[Key comparable, Value any](hook EvictHook[Key, Value]) Option[Key, Value] {
	return func(set *settings[Key, Value]) {
		set.onEvict = hook
	}
}

func (set *settings[Key, Value]) evicted(victims ...victim[Key, Value]) {
	for _, v := range victims {
		set.logger.Debug("evicted page",
			"key", v.key,
		)
		if set.onEvict != nil {
			set.onEvict(v.key, v.value)
		}
	}
}

type victim[Key comparable, Value any] struct {
	key   Key
	value Value
}

func (set *settings[Key, Value]) admitted(key Key, replaced bool) {
	set.logger.Debug("admitted page",
		"key", key,
		"replaced", replaced,
	)
}

func (set *settings[Key, Value]) allocationFailed(key Key, err error) {
	set.logger.Warn("page allocation failed",
		"key", key,
		"error", err,
	)
}
