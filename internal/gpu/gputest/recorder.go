// Package gputest implements the gpu interfaces in memory. Every call is logged
// in order on a shared Recorder, which also tracks object lifetimes and the
// state of fences, semaphores and command buffers so tests can assert on
// ordering and misuse without a real device.
package gputest

import (
	"fmt"
	"strings"
)

type Entry struct {
	Op     string
	Object string
	Detail string
}

func (e Entry) String() string {
	if e.Detail == "" {
		return e.Op + " " + e.Object
	}
	return e.Op + " " + e.Object + " " + e.Detail
}

type Recorder struct {
	Entries []Entry

	// Violations lists every misuse the fake detected, such as destroying an
	// object twice or resetting a command buffer the GPU still owns.
	Violations []string

	// Fail makes the named operation return the error after it is logged.
	Fail map[string]error

	counters map[string]int
	live     map[string]interface{}
	order    []string
}

func NewRecorder() *Recorder {
	return &Recorder{
		Fail:     map[string]error{},
		counters: map[string]int{},
		live:     map[string]interface{}{},
	}
}

// Ops returns the logged entries whose operation is one of ops, or every entry
// when ops is empty.
func (r *Recorder) Ops(ops ...string) []Entry {
	if len(ops) == 0 {
		return append([]Entry(nil), r.Entries...)
	}

	var out []Entry
	for _, e := range r.Entries {
		for _, op := range ops {
			if e.Op == op {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

func (r *Recorder) Count(op string) int {
	return len(r.Ops(op))
}

// Live returns the names of objects that were created and not yet destroyed, in
// creation order.
func (r *Recorder) Live() []string {
	return append([]string(nil), r.order...)
}

// Destroyed returns object names in the order they were destroyed.
func (r *Recorder) Destroyed() []string {
	var names []string
	for _, e := range r.Ops("Destroy") {
		names = append(names, e.Object)
	}
	return names
}

func (r *Recorder) String() string {
	lines := make([]string, len(r.Entries))
	for i, e := range r.Entries {
		lines[i] = e.String()
	}
	return strings.Join(lines, "\n")
}

func (r *Recorder) newName(kind string) string {
	r.counters[kind]++
	return fmt.Sprintf("%s#%d", kind, r.counters[kind])
}

func (r *Recorder) call(op, object, detail string) error {
	r.Entries = append(r.Entries, Entry{Op: op, Object: object, Detail: detail})
	if err, ok := r.Fail[op]; ok {
		return err
	}
	return nil
}

func (r *Recorder) violate(format string, args ...interface{}) {
	r.Violations = append(r.Violations, fmt.Sprintf(format, args...))
}

func (r *Recorder) add(name string, v interface{}) {
	r.live[name] = v
	r.order = append(r.order, name)
}

func (r *Recorder) remove(name string) bool {
	if _, ok := r.live[name]; !ok {
		return false
	}
	delete(r.live, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

func (r *Recorder) isLive(name string) bool {
	_, ok := r.live[name]
	return ok
}

func (r *Recorder) requireLive(op string, name string) {
	if !r.isLive(name) {
		r.violate("%s used %s after it was destroyed", op, name)
	}
}

type object struct {
	rec  *Recorder
	name string
}

func (r *Recorder) newObject(kind string) object {
	return object{rec: r, name: r.newName(kind)}
}

// Name identifies the object in the recorder log.
func (o *object) Name() string {
	return o.name
}

func (o *object) destroy() {
	_ = o.rec.call("Destroy", o.name, "")
	if !o.rec.remove(o.name) {
		o.rec.violate("%s destroyed twice", o.name)
	}
}

// named is implemented by every fake object.
type named interface {
	Name() string
}

func nameOf(v interface{}) string {
	if n, ok := v.(named); ok && n != nil {
		return n.Name()
	}
	return "<nil>"
}
