// Package client implements the line-oriented shell that talks to a
// server.Server over a TCP connection.
package client

import (
	"bufio"
	"fmt"
	"io"
	"net"

	"github.com/nullblock/tinyblockfs/wire"
)

// Shell reads commands from in, sends them to a connected server, and
// writes responses to out.
type Shell struct {
	conn net.Conn
	enc  wire.Encoder
	dec  wire.Decoder
	in   *bufio.Scanner
	out  io.Writer
}

// Connect dials addr and returns a Shell reading from in and writing to
// out.
func Connect(addr string, in io.Reader, out io.Writer) (*Shell, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Shell{
		conn: conn,
		enc:  wire.NewEncoder(conn),
		dec:  wire.NewDecoder(conn),
		in:   bufio.NewScanner(in),
		out:  out,
	}, nil
}

// Close shuts down the connection.
func (s *Shell) Close() error {
	return s.conn.Close()
}

// Run loops: print a prompt, read one line, and either handle it
// locally (--help, exit) or parse it into a wire.Command, send it, and
// print the wire.Response.
func (s *Shell) Run() error {
	for {
		fmt.Fprint(s.out, ">> ")
		if !s.in.Scan() {
			return s.in.Err()
		}

		line := s.in.Text()
		switch line {
		case "--help":
			s.help()
			continue
		case "exit":
			return nil
		}

		cmd, err := wire.ParseCommand(line)
		if err != nil {
			fmt.Fprintf(s.out, "command error: %s; use \"--help\" to see help\n", err)
			continue
		}

		if err := s.enc.EncodeCommand(cmd); err != nil {
			return err
		}

		resp, err := s.dec.DecodeResponse()
		if err != nil {
			return err
		}
		s.printResponse(resp)
	}
}

func (s *Shell) printResponse(resp wire.Response) {
	if !resp.Ok {
		fmt.Fprintf(s.out, "error %d: %s\n", resp.Code, resp.Message)
		return
	}
	if len(resp.Payload) > 0 {
		fmt.Fprintln(s.out, string(resp.Payload))
	}
}

func (s *Shell) help() {
	fmt.Fprintln(s.out, "commands: mkdir NAME, ls, cd NAME, home, rmdir NAME,")
	fmt.Fprintln(s.out, "          create NAME, append NAME DATA, cat NAME, rm NAME, exit")
}
