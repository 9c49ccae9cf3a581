// Package registry provides a generic, concurrency-safe keyed store with an
// optional capacity.
//
// The engine uses it as its compiled program cache:
//
//	programs := registry.New[string, *Program](registry.WithCapacity(512))
//	prog, cached, err := programs.GetOrCreate(source, func() (*Program, error) {
//	    return compile(source)
//	})
//
// GetOrCreate never stores a value whose factory failed, so a source that
// does not compile is retried on the next call.
package registry
