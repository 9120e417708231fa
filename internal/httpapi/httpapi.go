// Package httpapi serves a live preview of the display and lets a host push
// chunks, text and input over HTTP instead of the raw transport.
package httpapi

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/photonicat/mintaka_screen/internal/input"
	"github.com/photonicat/mintaka_screen/internal/paginator"
	"github.com/photonicat/mintaka_screen/internal/protocol"
	"github.com/photonicat/mintaka_screen/internal/screen"
)

const sendTimeout = 2 * time.Second

var errBusy = errors.New("display loop busy")

// FrameSource returns the last frame pushed to the panel.
type FrameSource interface {
	Snapshot() *image.RGBA
}

// StateSource returns the subsystem's diagnostic view.
type StateSource interface {
	Snapshot() screen.Snapshot
}

type Server struct {
	app    *fiber.App
	frames FrameSource
	state  StateSource

	chunks chan<- protocol.Chunk
	events chan<- input.Event
	status chan<- string

	// one transfer at a time, so concurrent posts cannot interleave chunks
	sendMu sync.Mutex
}

type textRequest struct {
	Lines []string `json:"lines"`
	Text  string   `json:"text"`
}

type statusRequest struct {
	Status string `json:"status"`
}

func New(frames FrameSource, state StateSource, chunks chan<- protocol.Chunk, events chan<- input.Event, status chan<- string) *Server {
	s := &Server{
		app:    fiber.New(fiber.Config{DisableStartupMessage: true}),
		frames: frames,
		state:  state,
		chunks: chunks,
		events: events,
		status: status,
	}

	s.app.Get("/", s.serveState)
	s.app.Get("/state", s.serveState)
	s.app.Get("/frame", s.serveFrame)
	s.app.Post("/chunk", s.postChunk)
	s.app.Post("/text", s.postText)
	s.app.Post("/rotate/:dir", s.postRotate)
	s.app.Post("/key", s.postKey)
	s.app.Post("/status", s.postStatus)
	s.app.Post("/shutdown", s.postShutdown)
	return s
}

func (s *Server) App() *fiber.App { return s.app }

// Listen blocks serving on addr.
func (s *Server) Listen(addr string) error {
	log.Println("Starting Fiber server on", addr)
	return s.app.Listen(addr)
}

func (s *Server) Shutdown() error { return s.app.Shutdown() }

func (s *Server) serveState(c *fiber.Ctx) error {
	return c.JSON(s.state.Snapshot())
}

func (s *Server) serveFrame(c *fiber.Ctx) error {
	frame := s.frames.Snapshot()
	if frame == nil {
		return c.Status(fiber.StatusServiceUnavailable).SendString("No frame available")
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, frame); err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to encode image")
	}
	c.Set("Content-Type", "image/png")
	c.Set("Content-Length", strconv.Itoa(buf.Len()))
	return c.Send(buf.Bytes())
}

func (s *Server) postChunk(c *fiber.Ctx) error {
	chunk, err := protocol.ParseChunk(c.Body())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString(err.Error())
	}
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	if err := send(s.chunks, chunk); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).SendString(err.Error())
	}
	return c.SendStatus(fiber.StatusAccepted)
}

func (s *Server) postText(c *fiber.Ctx) error {
	var req textRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Invalid JSON")
	}
	lines := req.Lines
	if lines == nil {
		lines = protocol.SplitText(req.Text)
	}

	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	for _, chunk := range protocol.EncodeLines(lines) {
		if err := send(s.chunks, chunk); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).SendString(err.Error())
		}
	}
	return c.SendStatus(fiber.StatusAccepted)
}

func (s *Server) postRotate(c *fiber.Ctx) error {
	var dir paginator.Direction
	switch c.Params("dir") {
	case "forward", "cw":
		dir = paginator.Forward
	case "backward", "ccw":
		dir = paginator.Backward
	default:
		return c.Status(fiber.StatusBadRequest).SendString("direction must be forward or backward")
	}
	return s.sendEvent(c, input.Rotate(dir))
}

func (s *Server) postKey(c *fiber.Ctx) error {
	return s.sendEvent(c, input.Key(c.QueryBool("pressed", true)))
}

func (s *Server) postShutdown(c *fiber.Ctx) error {
	return s.sendEvent(c, input.Shutdown(c.QueryBool("bootloader", false)))
}

func (s *Server) postStatus(c *fiber.Ctx) error {
	var req statusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Invalid JSON")
	}
	if err := send(s.status, req.Status); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).SendString(err.Error())
	}
	return c.SendStatus(fiber.StatusAccepted)
}

func (s *Server) sendEvent(c *fiber.Ctx, e input.Event) error {
	if err := send(s.events, e); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).SendString(err.Error())
	}
	return c.SendStatus(fiber.StatusAccepted)
}

func send[T any](ch chan<- T, v T) error {
	if ch == nil {
		return errBusy
	}
	t := time.NewTimer(sendTimeout)
	defer t.Stop()
	select {
	case ch <- v:
		return nil
	case <-t.C:
		return errBusy
	}
}
