package preview

import (
	"context"
	"fmt"
	"sync"

	"tailor-preview/core/engine"
	"tailor-preview/core/texture"
)

// eventLog records engine calls in the order they happen.
type eventLog struct {
	mu     sync.Mutex
	events []string
}

func (l *eventLog) add(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, fmt.Sprintf(format, args...))
}

func (l *eventLog) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.events))
	copy(out, l.events)
	return out
}

func (l *eventLog) index(event string) int {
	for i, e := range l.all() {
		if e == event {
			return i
		}
	}
	return -1
}

// fakeInstance is an in-memory engine instance.
type fakeInstance struct {
	id  int
	log *eventLog

	mu        sync.Mutex
	gates     map[string]chan struct{}
	fail      map[string]error
	textures  map[string]texture.Config
	options   []engine.Options
	destroyed int
}

func newFakeInstance(id int, log *eventLog) *fakeInstance {
	return &fakeInstance{
		id:       id,
		log:      log,
		gates:    map[string]chan struct{}{},
		fail:     map[string]error{},
		textures: map[string]texture.Config{},
	}
}

// block makes the given operation ("apply a", "remove b") wait until the
// returned function is called.
func (f *fakeInstance) block(op string) func() {
	ch := make(chan struct{})
	f.mu.Lock()
	f.gates[op] = ch
	f.mu.Unlock()
	var once sync.Once
	return func() { once.Do(func() { close(ch) }) }
}

func (f *fakeInstance) failOn(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[op] = err
}

func (f *fakeInstance) run(op string, fn func()) error {
	f.log.add("start %s", op)
	f.mu.Lock()
	gate := f.gates[op]
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	err := f.fail[op]
	if err == nil {
		fn()
	}
	f.mu.Unlock()
	f.log.add("end %s", op)
	return err
}

func (f *fakeInstance) SetOptions(opts engine.Options) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.options = append(f.options, opts)
}

func (f *fakeInstance) ApplyTexture(_ context.Context, group string, cfg texture.Config) error {
	return f.run("apply "+group, func() { f.textures[group] = cfg })
}

func (f *fakeInstance) RemoveTexture(_ context.Context, group string) error {
	return f.run("remove "+group, func() { delete(f.textures, group) })
}

func (f *fakeInstance) Destroy() {
	f.mu.Lock()
	f.destroyed++
	f.mu.Unlock()
	f.log.add("destroy %d", f.id)
}

func (f *fakeInstance) applied() map[string]texture.Config {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]texture.Config, len(f.textures))
	for k, v := range f.textures {
		out[k] = v
	}
	return out
}

func (f *fakeInstance) destroyCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.destroyed
}

func (f *fakeInstance) optionsSeen() []engine.Options {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]engine.Options(nil), f.options...)
}

// fakeFactory creates fakeInstances and can be told to fail or block.
type fakeFactory struct {
	log *eventLog

	mu        sync.Mutex
	instances []*fakeInstance
	err       error
	gate      chan struct{}
	entered   chan struct{}
	prepare   func(inst *fakeInstance)
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{log: &eventLog{}}
}

func (f *fakeFactory) Create(_ context.Context, _ engine.OutfitConfig, _ engine.Mount) (engine.Instance, error) {
	f.mu.Lock()
	n := len(f.instances) + 1
	gate, entered, err, prepare := f.gate, f.entered, f.err, f.prepare
	f.gate, f.entered = nil, nil
	f.mu.Unlock()

	f.log.add("create %d", n)
	if entered != nil {
		close(entered)
	}
	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}

	inst := newFakeInstance(n, f.log)
	if prepare != nil {
		prepare(inst)
	}
	f.mu.Lock()
	f.instances = append(f.instances, inst)
	f.mu.Unlock()
	return inst, nil
}

func (f *fakeFactory) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.instances)
}

func (f *fakeFactory) instance(i int) *fakeInstance {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.instances[i]
}
