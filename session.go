package blit

import (
	"slices"
	"sync"

	"github.com/gogpu/blit/atlas"
)

// session is the per-frame state machine: Closed until begin, Open
// until end. It owns the frame-local request queue and the camera for
// the frame.
//
// Appends are mutex-synchronized so multiple producer goroutines may
// record draws into one open frame; end is the barrier that makes all
// appends visible to culling and batching.
type session struct {
	mu   sync.Mutex
	open bool
	cam  Camera
	reqs []request
	seq  uint32
	cap  int
}

func newSession(maxRequests int) *session {
	initial := maxRequests
	if initial > 1024 {
		initial = 1024
	}
	return &session{
		reqs: make([]request, 0, initial),
		cap:  maxRequests,
	}
}

// begin opens a frame, clearing the prior frame's buffers.
func (s *session) begin(cam Camera) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.open {
		return ErrSessionOpen
	}
	s.open = true
	s.cam = cam
	s.reqs = s.reqs[:0]
	s.seq = 0
	return nil
}

// push appends one request, enforcing the per-frame capacity. On any
// error nothing about the frame changes.
func (s *session) push(req request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return ErrSessionClosed
	}
	if len(s.reqs) >= s.cap {
		return ErrQueueFull
	}
	req.seq = s.seq
	s.seq++
	s.reqs = append(s.reqs, req)
	return nil
}

func (s *session) drawQuad(q QuadRequest) error {
	return s.push(request{kind: kindQuad, layer: q.Layer, quad: q})
}

func (s *session) drawCustom(verts []Vertex, indices []uint16, tex atlas.Handle, layer int32) error {
	if len(verts) == 0 || len(indices) == 0 {
		return nil
	}
	// The caller may reuse its slices after the call; the frame owns
	// copies.
	return s.push(request{
		kind:    kindGeometry,
		layer:   layer,
		verts:   slices.Clone(verts),
		indices: slices.Clone(indices),
		texture: tex,
	})
}

func (s *session) drawPrebatched(layer int32, unit ExternalUnit) error {
	return s.push(request{
		kind:     kindExternal,
		layer:    layer,
		external: &unit,
	})
}

// take closes the frame and hands its requests to the caller. The
// session returns to Closed no matter what the caller does next, so a
// failed submission drops the frame rather than wedging the state
// machine.
func (s *session) take() ([]request, Camera, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return nil, Camera{}, ErrSessionClosed
	}
	s.open = false
	return s.reqs, s.cam, nil
}

// requestCount returns the number of requests recorded this frame.
func (s *session) requestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reqs)
}
