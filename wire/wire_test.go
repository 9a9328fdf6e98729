package wire_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nullblock/tinyblockfs/wire"
)

func TestParseCommandNoArgVerbs(t *testing.T) {
	cmd, err := wire.ParseCommand("home")
	require.NoError(t, err)
	require.Equal(t, wire.Home, cmd.Op)

	cmd, err = wire.ParseCommand("ls")
	require.NoError(t, err)
	require.Equal(t, wire.Ls, cmd.Op)
}

func TestParseCommandSingleNameVerbs(t *testing.T) {
	for _, verb := range []wire.CommandType{wire.Mkdir, wire.Cd, wire.Rmdir, wire.Create, wire.Rm, wire.Cat} {
		cmd, err := wire.ParseCommand(string(verb) + " myfile")
		require.NoError(t, err)
		require.Equal(t, verb, cmd.Op)
		require.Equal(t, "myfile", trimName(cmd.Name))
	}
}

func TestParseCommandAppendCarriesPayload(t *testing.T) {
	cmd, err := wire.ParseCommand("append f hello world")
	require.NoError(t, err)
	require.Equal(t, wire.Append, cmd.Op)
	require.Equal(t, "f", trimName(cmd.Name))
	require.Equal(t, "hello world", string(cmd.Payload))
}

func TestParseCommandRejectsMissingName(t *testing.T) {
	_, err := wire.ParseCommand("mkdir")
	require.Error(t, err)
}

func TestParseCommandRejectsMissingAppendData(t *testing.T) {
	_, err := wire.ParseCommand("append f")
	require.Error(t, err)
}

func TestParseCommandRejectsUnknownVerb(t *testing.T) {
	_, err := wire.ParseCommand("frobnicate x")
	require.Error(t, err)
}

func TestEncodeDecodeCommandRoundTrips(t *testing.T) {
	cmd, err := wire.ParseCommand("create f")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, wire.NewEncoder(&buf).EncodeCommand(cmd))

	got, err := wire.NewDecoder(&buf).DecodeCommand()
	require.NoError(t, err)
	require.Equal(t, cmd, got)
}

func TestEncodeDecodeResponseRoundTrips(t *testing.T) {
	resp := wire.Response{Ok: true, Payload: []byte("dirA/ f")}

	var buf bytes.Buffer
	require.NoError(t, wire.NewEncoder(&buf).EncodeResponse(resp))

	got, err := wire.NewDecoder(&buf).DecodeResponse()
	require.NoError(t, err)
	require.Equal(t, resp, got)
}

func trimName(name [9]byte) string {
	i := len(name)
	for i > 0 && name[i-1] == 0 {
		i--
	}
	return string(name[:i])
}
