package dispatch

import (
	id "atende/pkg/domain"
	dErrors "atende/pkg/domain-errors"
)

// Registry maps module types to their handlers. It is populated synchronously
// during process bootstrap and read-only afterwards, so Resolve needs no
// locking. Registration at request time is a programming error.
type Registry struct {
	handlers map[id.ModuleType]Handler
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[id.ModuleType]Handler)}
}

// Register binds a module type to a handler. Binding the same type twice
// fails: duplicate registrations indicate a wiring bug and must abort
// startup.
func (r *Registry) Register(moduleType id.ModuleType, handler Handler) error {
	if moduleType.IsNil() {
		return dErrors.New(dErrors.CodeBadRequest, "module type is required")
	}
	if handler == nil {
		return dErrors.Newf(dErrors.CodeBadRequest, "handler for %s is nil", moduleType)
	}
	if _, exists := r.handlers[moduleType]; exists {
		return dErrors.Newf(dErrors.CodeDuplicateRegistration, "module type %s already registered", moduleType)
	}
	r.handlers[moduleType] = handler
	return nil
}

// Resolve returns the handler bound to a module type.
func (r *Registry) Resolve(moduleType id.ModuleType) (Handler, error) {
	handler, ok := r.handlers[moduleType]
	if !ok {
		return nil, dErrors.Newf(dErrors.CodeUnknownModule, "no handler registered for module type %s", moduleType)
	}
	return handler, nil
}

// Len returns the number of registered handlers.
func (r *Registry) Len() int { return len(r.handlers) }
