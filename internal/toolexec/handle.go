package toolexec

// Handle tracks a detached command until it is joined.
type Handle struct {
	cmd    Command
	done   chan struct{}
	result Result
}

func newHandle(c Command) *Handle {
	return &Handle{cmd: c, done: make(chan struct{})}
}

// Completed returns a Handle that has already finished with r. Runners that
// do not spawn real processes use it to satisfy Start.
func Completed(r Result) *Handle {
	h := newHandle(r.Command)
	h.complete(r)
	return h
}

func (h *Handle) complete(r Result) {
	h.result = r
	close(h.done)
}

// Command returns the command this handle tracks.
func (h *Handle) Command() Command { return h.cmd }

// Done is closed once the command has finished.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Wait blocks until the command finishes and returns its Result.
func (h *Handle) Wait() Result {
	<-h.done
	return h.result
}

// Group collects detached handles so they can be joined together.
type Group struct {
	handles []*Handle
}

// Add registers h with the group.
func (g *Group) Add(h *Handle) {
	g.handles = append(g.handles, h)
}

// Len returns the number of handles in the group.
func (g *Group) Len() int { return len(g.handles) }

// Wait joins every handle in the order they were added.
func (g *Group) Wait() []Result {
	results := make([]Result, 0, len(g.handles))
	for _, h := range g.handles {
		results = append(results, h.Wait())
	}
	g.handles = nil
	return results
}
