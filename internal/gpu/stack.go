package gpu

// Stack records native objects in creation order and destroys them in reverse.
// Objects created later may depend on earlier ones but never the other way
// around, so unwinding the stack always releases dependants first.
type Stack struct {
	entries []stackEntry
}

type stackEntry struct {
	name string
	obj  Destroyer
}

// Push records obj under name. A nil obj is ignored.
func (s *Stack) Push(name string, obj Destroyer) {
	if obj == nil {
		return
	}
	s.entries = append(s.entries, stackEntry{name: name, obj: obj})
}

func (s *Stack) Len() int {
	return len(s.entries)
}

// Names returns the recorded names in creation order.
func (s *Stack) Names() []string {
	names := make([]string, len(s.entries))
	for i, e := range s.entries {
		names[i] = e.name
	}
	return names
}

// Unwind destroys every recorded object, most recent first, and empties the
// stack. It is safe to call more than once.
func (s *Stack) Unwind() {
	for i := len(s.entries) - 1; i >= 0; i-- {
		s.entries[i].obj.Destroy()
		s.entries[i] = stackEntry{}
	}
	s.entries = s.entries[:0]
}

// DestroyFunc adapts an ordinary function to Destroyer.
type DestroyFunc func()

func (f DestroyFunc) Destroy() {
	f()
}
