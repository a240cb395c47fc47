package uiparticle

// Connection identifies one handler attached to a RenderSignal.
type Connection int

type signalHandler struct {
	id Connection
	fn func()
}

// RenderSignal is the host's "canvases are about to render" event. The host
// calls Emit once or more per rendered frame.
type RenderSignal struct {
	handlers []signalHandler
	nextID   Connection
	emitting []signalHandler
}

func NewRenderSignal() *RenderSignal {
	return &RenderSignal{}
}

// Connect attaches fn and returns the id used to detach it.
func (s *RenderSignal) Connect(fn func()) Connection {
	if fn == nil {
		panic("RenderSignal.Connect: nil handler")
	}
	s.nextID++
	s.handlers = append(s.handlers, signalHandler{id: s.nextID, fn: fn})
	return s.nextID
}

// Disconnect detaches the handler; unknown ids are ignored.
func (s *RenderSignal) Disconnect(id Connection) bool {
	for i, h := range s.handlers {
		if h.id == id {
			copy(s.handlers[i:], s.handlers[i+1:])
			s.handlers[len(s.handlers)-1] = signalHandler{}
			s.handlers = s.handlers[:len(s.handlers)-1]
			return true
		}
	}
	return false
}

func (s *RenderSignal) Len() int {
	return len(s.handlers)
}

// Emit calls every handler connected when Emit started.
func (s *RenderSignal) Emit() {
	s.emitting = append(s.emitting[:0], s.handlers...)
	for _, h := range s.emitting {
		h.fn()
	}
}

// FrameClock reports the index of the frame being rendered.
type FrameClock interface {
	FrameCount() int
}

// FrameCounter is a FrameClock advanced by the host loop.
type FrameCounter struct {
	frame int
}

func (c *FrameCounter) FrameCount() int { return c.frame }

// Advance moves to the next frame and returns its index.
func (c *FrameCounter) Advance() int {
	c.frame++
	return c.frame
}
