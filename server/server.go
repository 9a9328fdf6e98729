// Package server accepts connections from a client.Shell and dispatches
// each wire.Command to one tinyfs.FileSys method.
package server

import (
	"io"
	"log"
	"net"

	fserrors "github.com/nullblock/tinyblockfs/errors"
	"github.com/nullblock/tinyblockfs/tinyfs"
	"github.com/nullblock/tinyblockfs/wire"
)

// Server owns the single FileSys every connection's commands are
// dispatched against. Per the concurrency model, only one mutator may
// touch the FileSys at a time, so Run accepts and serves connections
// one at a time rather than spawning a goroutine per connection.
type Server struct {
	fs       *tinyfs.FileSys
	listener net.Listener
	Logger   *log.Logger
}

// Bind opens a listener on addr over a FileSys already mounted on fs.
func Bind(addr string, fs *tinyfs.FileSys) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fserrors.ErrIOError.Wrap(err)
	}
	return &Server{fs: fs, listener: ln, Logger: log.Default()}, nil
}

// Addr returns the bound address.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Close stops accepting new connections.
func (s *Server) Close() error {
	return s.listener.Close()
}

// Run accepts connections serially, deliberately not
// "go s.handleConn(conn)" per one connection: a concurrent handler
// would violate the single-mutator invariant the core filesystem
// relies on.
func (s *Server) Run() error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return fserrors.ErrIOError.Wrap(err)
		}
		s.handleConn(conn)
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	dec := wire.NewDecoder(conn)
	enc := wire.NewEncoder(conn)

	for {
		cmd, err := dec.DecodeCommand()
		if err != nil {
			if err != io.EOF {
				s.Logger.Printf("decode error from %s: %v", conn.RemoteAddr(), err)
			}
			return
		}

		resp := s.dispatch(cmd)
		if err := enc.EncodeResponse(resp); err != nil {
			s.Logger.Printf("encode error to %s: %v", conn.RemoteAddr(), err)
			return
		}
	}
}

// dispatch calls exactly one FileSys method per command. Every one of
// the nine commands is handled here; the original server this protocol
// is modeled on left home/append/cat/rm as no-ops, but nothing in this
// spec calls for leaving that gap unfinished.
func (s *Server) dispatch(cmd wire.Command) wire.Response {
	name := tinyfs.Name(cmd.Name)

	switch cmd.Op {
	case wire.Mkdir:
		return errResponse(s.fs.Mkdir(name))

	case wire.Cd:
		return errResponse(s.fs.Cd(name))

	case wire.Home:
		s.fs.Home()
		return wire.Response{Ok: true}

	case wire.Rmdir:
		return errResponse(s.fs.Rmdir(name))

	case wire.Ls:
		listing, err := s.fs.Ls()
		if err != nil {
			return errResponse(err)
		}
		return wire.Response{Ok: true, Payload: []byte(listing)}

	case wire.Create:
		return errResponse(s.fs.Create(name))

	case wire.Append:
		return errResponse(s.fs.Append(name, cmd.Payload))

	case wire.Cat:
		data, err := s.fs.Cat(name)
		if err != nil {
			return errResponse(err)
		}
		return wire.Response{Ok: true, Payload: data}

	case wire.Rm:
		return errResponse(s.fs.Rm(name))

	default:
		return wire.Response{
			Ok:      false,
			Code:    fserrors.Code(fserrors.ErrCommandParseError),
			Message: "unrecognized command",
		}
	}
}

func errResponse(err error) wire.Response {
	if err == nil {
		return wire.Response{Ok: true}
	}
	return wire.Response{Ok: false, Code: fserrors.Code(err), Message: err.Error()}
}
