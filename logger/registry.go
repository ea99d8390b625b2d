package logger

import "sync"

// components holds loggers by component name. Explicit registrations win;
// otherwise Get derives a tagged child of the global logger and caches it
// until the global logger is replaced.
var components = &componentLoggers{
	pinned:  make(map[string]*Logger),
	derived: make(map[string]*Logger),
}

type componentLoggers struct {
	mu      sync.RWMutex
	pinned  map[string]*Logger
	derived map[string]*Logger
	base    *Logger
}

// Register pins l as the logger returned by Get(name).
func Register(name string, l *Logger) {
	components.mu.Lock()
	defer components.mu.Unlock()
	components.pinned[name] = l
}

// Unregister removes a pinned logger so Get falls back to the global logger again.
func Unregister(name string) {
	components.mu.Lock()
	defer components.mu.Unlock()
	delete(components.pinned, name)
}

// Get returns the logger for a component: the registered one if any, or the
// global logger tagged with name.
func Get(name string) *Logger {
	global := GetGlobalLogger()

	components.mu.RLock()
	l, ok := components.pinned[name]
	if !ok && components.base == global {
		l, ok = components.derived[name]
	}
	components.mu.RUnlock()
	if ok {
		return l
	}

	components.mu.Lock()
	defer components.mu.Unlock()
	if l, ok := components.pinned[name]; ok {
		return l
	}
	if components.base != global {
		components.base = global
		clear(components.derived)
	}
	l = global.WithComponent(name)
	components.derived[name] = l
	return l
}
