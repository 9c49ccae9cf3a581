package interp

// Env resolves names during evaluation. Lookup reports false for names that
// are not bound; such names evaluate to null.
type Env interface {
	Lookup(name string) (any, bool)
}

// Vars is an Env backed by a plain map of constants.
type Vars map[string]any

// Lookup implements Env.
func (v Vars) Lookup(name string) (any, bool) {
	x, ok := v[name]
	return x, ok
}

// EnvFunc adapts a function to Env.
type EnvFunc func(name string) (any, bool)

// Lookup implements Env.
func (f EnvFunc) Lookup(name string) (any, bool) {
	return f(name)
}

// Chain returns an Env that consults envs in order and returns the first
// binding found. Nil entries are skipped.
func Chain(envs ...Env) Env {
	return chain(envs)
}

type chain []Env

func (c chain) Lookup(name string) (any, bool) {
	for _, env := range c {
		if env == nil {
			continue
		}
		if x, ok := env.Lookup(name); ok {
			return x, true
		}
	}
	return nil, false
}
