// Package wire defines the request/reply pair exchanged between the
// shell client and the filesystem server, and the text parser that
// turns one typed line into a Command.
package wire

import (
	"encoding/gob"
	"fmt"
	"io"
	"strings"

	"github.com/nullblock/tinyblockfs/errors"
	"github.com/nullblock/tinyblockfs/tinyfs"
)

// CommandType names one of the nine filesystem operations a Command
// can carry.
type CommandType string

const (
	Mkdir  CommandType = "mkdir"
	Ls     CommandType = "ls"
	Cd     CommandType = "cd"
	Home   CommandType = "home"
	Rmdir  CommandType = "rmdir"
	Create CommandType = "create"
	Append CommandType = "append"
	Cat    CommandType = "cat"
	Rm     CommandType = "rm"
)

// Command is one request sent from client to server. Name is unused by
// home and ls. Payload carries append's data; every other command
// leaves it empty.
type Command struct {
	Op      CommandType
	Name    [tinyfs.MaxFNameSize]byte
	Payload []byte
}

// Response is the server's reply. Ok reports whether the operation
// succeeded; Code is errors.Code(err) on failure and 0 on success.
// Payload carries cat's file contents or ls's listing text.
type Response struct {
	Ok      bool
	Code    uint16
	Message string
	Payload []byte
}

// Encoder writes Commands or Responses to a connection as gob values.
type Encoder struct{ enc *gob.Encoder }

// NewEncoder wraps w.
func NewEncoder(w io.Writer) Encoder { return Encoder{enc: gob.NewEncoder(w)} }

// EncodeCommand writes cmd.
func (e Encoder) EncodeCommand(cmd Command) error { return e.enc.Encode(cmd) }

// EncodeResponse writes resp.
func (e Encoder) EncodeResponse(resp Response) error { return e.enc.Encode(resp) }

// Decoder reads Commands or Responses from a connection.
type Decoder struct{ dec *gob.Decoder }

// NewDecoder wraps r.
func NewDecoder(r io.Reader) Decoder { return Decoder{dec: gob.NewDecoder(r)} }

// DecodeCommand reads one Command.
func (d Decoder) DecodeCommand() (Command, error) {
	var cmd Command
	err := d.dec.Decode(&cmd)
	return cmd, err
}

// DecodeResponse reads one Response.
func (d Decoder) DecodeResponse() (Response, error) {
	var resp Response
	err := d.dec.Decode(&resp)
	return resp, err
}

// verbs lists the nine recognized operations. ParseCommand matches a
// line's verb with its own switch and does not consult this list.
var verbs = []CommandType{Mkdir, Rmdir, Create, Append, Cat, Rm, Cd, Home, Ls}

// ParseCommand parses one line of shell input into a Command. The verb is
// the line's first space-separated token and must equal one of the nine
// operation names exactly. Unlike original_source's parse_from_string,
// every one of the nine operations is recognized here, including append
// and cat, which the original left unparsed.
func ParseCommand(line string) (Command, error) {
	line = strings.TrimRight(line, "\r\n")
	fields := strings.SplitN(line, " ", 2)
	verb := CommandType(fields[0])

	rest := ""
	if len(fields) == 2 {
		rest = fields[1]
	}

	switch verb {
	case Home, Ls:
		return Command{Op: verb}, nil

	case Mkdir, Cd, Rmdir, Create, Rm, Cat:
		if rest == "" {
			return Command{}, errors.ErrCommandParseError.WithMessage("missing file name")
		}
		name, err := tinyfs.NewName(rest)
		if err != nil {
			return Command{}, errors.ErrCommandParseError.Wrap(err)
		}
		return Command{Op: verb, Name: [tinyfs.MaxFNameSize]byte(name)}, nil

	case Append:
		nameAndData := strings.SplitN(rest, " ", 2)
		if len(nameAndData) != 2 || nameAndData[0] == "" {
			return Command{}, errors.ErrCommandParseError.WithMessage("usage: append NAME DATA")
		}
		name, err := tinyfs.NewName(nameAndData[0])
		if err != nil {
			return Command{}, errors.ErrCommandParseError.Wrap(err)
		}
		return Command{
			Op:      Append,
			Name:    [tinyfs.MaxFNameSize]byte(name),
			Payload: []byte(nameAndData[1]),
		}, nil

	default:
		return Command{}, errors.ErrCommandParseError.WithMessage(fmt.Sprintf("unrecognized command %q", verb))
	}
}
