package store

// Slice owns one branch of the state tree. Mutations go through Update, which
// routes them through the container's Dispatch.
type Slice[S any] struct {
	store *Store
	name  string
	state S
	gen   uint64 // bumped by Reset
	init  func() S
	clone func(S) S
}

// NewSlice creates a slice in its initial state and registers it for ResetAll.
// clone must return a copy that shares no mutable memory with its argument;
// nil means S is already a value type.
func NewSlice[S any](st *Store, name string, init func() S, clone func(S) S) *Slice[S] {
	if clone == nil {
		clone = func(s S) S { return s }
	}
	sl := &Slice[S]{store: st, name: name, state: init(), init: init, clone: clone}
	st.Register(sl)
	return sl
}

func (s *Slice[S]) Name() string { return s.name }

// Update applies fn to the slice state as a single transition named name/action.
func (s *Slice[S]) Update(action string, fn func(*S)) Change {
	return s.store.Dispatch(Action(s.name+"/"+action), func() { fn(&s.state) })
}

// Begin applies fn like Update and returns the generation it was applied in.
// Pass it to Finish when the asynchronous work started here completes.
func (s *Slice[S]) Begin(action string, fn func(*S)) uint64 {
	var gen uint64
	s.store.Dispatch(Action(s.name+"/"+action), func() {
		gen = s.gen
		fn(&s.state)
	})
	return gen
}

// Finish applies fn only if the slice has not been reset since Begin returned
// gen, so completions from before a logout are dropped. It reports whether fn ran.
func (s *Slice[S]) Finish(gen uint64, action string, fn func(*S)) bool {
	applied := false
	s.store.Dispatch(Action(s.name+"/"+action), func() {
		if s.gen != gen {
			return
		}
		fn(&s.state)
		applied = true
	})
	return applied
}

// Get returns a copy of the current state.
func (s *Slice[S]) Get() S {
	var out S
	s.store.Read(func() { out = s.clone(s.state) })
	return out
}

// Peek returns a copy of the current state without locking. It must only be
// called from inside Store.Read.
func (s *Slice[S]) Peek() S {
	return s.clone(s.state)
}

// Reset returns the slice to its initial state.
func (s *Slice[S]) Reset() {
	s.Update("reset", func(st *S) {
		s.gen++
		*st = s.init()
	})
}
