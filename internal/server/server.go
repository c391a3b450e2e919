package server

import (
	"net"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/famish99/uampd/internal/errs"
	"github.com/famish99/uampd/internal/proto"
)

// Dispatch resolves one request Message into its reply. The server calls
// it on the connection's own goroutine; internal/app supplies the concrete
// implementation, which hands Control/DataControl requests to the reactor
// via a Delegate Msg round trip, so this package never needs to import app
// or player.
type Dispatch func(proto.Message) proto.Message

// Server runs the accept loop for one listener as the Server task
// (spec.md §4.3, §4.7): per-connection goroutines speak internal/proto
// framing, dispatching requests onto the reactor and relaying
// Broadcaster deltas to subscribed connections. Grounded on the
// teacher's internal/mpd/server.go Start/acceptLoop/handleConnection
// shape, generalized from MPD's line protocol to length-delimited binary
// frames.
type Server struct {
	log         *logrus.Logger
	broadcaster *Broadcaster
	dispatch    Dispatch

	closing atomic.Bool
}

// New builds a Server. broadcaster is shared with the reactor so it can
// call Publish after committing a state transition.
func New(log *logrus.Logger, broadcaster *Broadcaster, dispatch Dispatch) *Server {
	return &Server{log: log, broadcaster: broadcaster, dispatch: dispatch}
}

// Serve runs the accept loop on ln until Shutdown closes it, returning
// nil in that case (spec.md §4.7 "the task ends with TaskMsg::Server(Ok)")
// or the first non-close Accept error otherwise. This is the body of the
// Server task, run on its own goroutine by internal/tasks.
func (s *Server) Serve(ln net.Listener) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			if s.closing.Load() {
				return nil
			}
			s.log.WithError(err).Warn("accept error")
			continue
		}
		go s.handleConn(conn)
	}
}

// Shutdown marks the server closing and closes ln, causing Serve's
// Accept to return and the task to end cleanly (spec.md §4.1 "Control(Close)
// ... stop server").
func (s *Server) Shutdown(ln net.Listener) {
	s.closing.Store(true)
	ln.Close()
}

// handleConn speaks the framed request/response protocol for one
// connection: decode a request, dispatch it onto the reactor, write the
// reply; Subscribe instead registers a broadcast Handle and starts a
// writer pump that interleaves Sub deltas with explicit replies (spec.md
// §4.7, §6 "Subscribers receive asynchronous SubMsg deltas interleaved
// with explicit replies").
func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	var writeMu sync.Mutex
	var handle *Handle
	defer func() {
		if handle != nil {
			s.broadcaster.Unregister(handle)
		}
	}()

	for {
		payload, err := proto.ReadFrame(conn)
		if err != nil {
			return
		}

		req, err := proto.Decode(payload)
		if err != nil {
			s.writeReply(conn, &writeMu, proto.ErrorMsg(errs.Serde, err.Error()))
			continue
		}

		if req.Kind == proto.KindSubscribe {
			if handle == nil {
				handle = s.broadcaster.Register()
				go s.writePump(conn, &writeMu, handle)
			}
			s.writeReply(conn, &writeMu, proto.Success())
			continue
		}

		resp := s.dispatch(req)
		s.writeReply(conn, &writeMu, resp)
	}
}

// writePump drains handle's channel and writes each delta as a Sub frame,
// sharing writeMu with handleConn's reply writes so the two never
// interleave mid-frame. Exits once Unregister closes handle's done signal.
func (s *Server) writePump(conn net.Conn, writeMu *sync.Mutex, handle *Handle) {
	for {
		select {
		case delta := <-handle.Recv():
			s.writeReply(conn, writeMu, proto.SubMessage(delta))
		case <-handle.Done():
			return
		}
	}
}

func (s *Server) writeReply(conn net.Conn, writeMu *sync.Mutex, msg proto.Message) {
	payload, err := proto.Encode(msg)
	if err != nil {
		s.log.WithError(err).Error("failed to encode reply")
		return
	}
	writeMu.Lock()
	defer writeMu.Unlock()
	if err := proto.WriteFrame(conn, payload); err != nil {
		s.log.WithError(err).Debug("failed to write reply, client likely disconnected")
	}
}
