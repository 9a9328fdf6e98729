package server_test

import (
	"net"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nullblock/tinyblockfs/internal/disktest"
	"github.com/nullblock/tinyblockfs/server"
	"github.com/nullblock/tinyblockfs/tinyfs"
	"github.com/nullblock/tinyblockfs/wire"
)

func newTestServer(t *testing.T) (*server.Server, string) {
	t.Helper()
	d := disktest.NewMemoryDisk(tinyfs.BlockSize, tinyfs.NumBlocks)
	bfs, err := tinyfs.Mount(d)
	require.NoError(t, err)
	fs := tinyfs.NewFileSys(bfs)

	srv, err := server.Bind("127.0.0.1:0", fs)
	require.NoError(t, err)
	t.Cleanup(func() { srv.Close() })
	go srv.Run()

	return srv, srv.Addr().String()
}

func dialAndRoundTrip(t *testing.T, addr string, cmd wire.Command) wire.Response {
	t.Helper()
	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, wire.NewEncoder(conn).EncodeCommand(cmd))
	resp, err := wire.NewDecoder(conn).DecodeResponse()
	require.NoError(t, err)
	return resp
}

func TestServerDispatchesCreateThenLs(t *testing.T) {
	_, addr := newTestServer(t)

	createCmd, err := wire.ParseCommand("create f")
	require.NoError(t, err)
	resp := dialAndRoundTrip(t, addr, createCmd)
	require.True(t, resp.Ok)

	lsCmd, err := wire.ParseCommand("ls")
	require.NoError(t, err)
	resp = dialAndRoundTrip(t, addr, lsCmd)
	require.True(t, resp.Ok)
	require.Equal(t, "f", string(resp.Payload))
}

func TestServerDispatchesAppendThenCatOverOneConnection(t *testing.T) {
	_, addr := newTestServer(t)

	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()
	enc := wire.NewEncoder(conn)
	dec := wire.NewDecoder(conn)

	createCmd, err := wire.ParseCommand("create f")
	require.NoError(t, err)
	require.NoError(t, enc.EncodeCommand(createCmd))
	resp, err := dec.DecodeResponse()
	require.NoError(t, err)
	require.True(t, resp.Ok)

	appendCmd, err := wire.ParseCommand("append f hello world")
	require.NoError(t, err)
	require.NoError(t, enc.EncodeCommand(appendCmd))
	resp, err = dec.DecodeResponse()
	require.NoError(t, err)
	require.True(t, resp.Ok)

	catCmd, err := wire.ParseCommand("cat f")
	require.NoError(t, err)
	require.NoError(t, enc.EncodeCommand(catCmd))
	resp, err = dec.DecodeResponse()
	require.NoError(t, err)
	require.True(t, resp.Ok)
	require.Equal(t, "hello world", string(resp.Payload))
}

func TestServerReturnsErrorCodeOnFileNotFound(t *testing.T) {
	_, addr := newTestServer(t)

	catCmd, err := wire.ParseCommand("cat ghost")
	require.NoError(t, err)
	resp := dialAndRoundTrip(t, addr, catCmd)
	require.False(t, resp.Ok)
	require.NotZero(t, resp.Code)
}
