package main

import (
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/nullblock/tinyblockfs/client"
	"github.com/nullblock/tinyblockfs/disk"
	"github.com/nullblock/tinyblockfs/server"
	"github.com/nullblock/tinyblockfs/tinyfs"
)

func main() {
	app := cli.App{
		Usage: "Shell for a tinyblockfs image, local or over TCP",
		Commands: []*cli.Command{
			{
				Name:   "connect",
				Usage:  "Connect to a running tinyfsd and open an interactive shell",
				Action: runConnect,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "addr",
						Value: "127.0.0.1:6000",
						Usage: "address of a running tinyfsd",
					},
				},
			},
			{
				Name:   "open",
				Usage:  "Mount an image directly, without a server, and open an interactive shell",
				Action: runDirect,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "image",
						Value: tinyfs.DefaultImagePath,
						Usage: "path to the backing image file",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("fatal error: %s", err.Error())
	}
}

func runConnect(c *cli.Context) error {
	shell, err := client.Connect(c.String("addr"), os.Stdin, os.Stdout)
	if err != nil {
		return err
	}
	defer shell.Close()
	return shell.Run()
}

// runDirect mounts an image and serves it on an ephemeral loopback port,
// then connects a Shell to that port in-process. This gives scripting and
// test callers the same line-oriented interface as "connect", without
// requiring a separately running tinyfsd.
func runDirect(c *cli.Context) error {
	d, err := disk.Mount(c.String("image"), tinyfs.BlockSize, tinyfs.NumBlocks)
	if err != nil {
		return err
	}
	defer d.Close()

	bfs, err := tinyfs.Mount(d)
	if err != nil {
		return err
	}
	fs := tinyfs.NewFileSys(bfs)
	defer fs.Close()

	srv, err := server.Bind("127.0.0.1:0", fs)
	if err != nil {
		return err
	}
	defer srv.Close()
	go func() {
		if err := srv.Run(); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}()

	shell, err := client.Connect(srv.Addr().String(), os.Stdin, os.Stdout)
	if err != nil {
		return err
	}
	defer shell.Close()
	return shell.Run()
}
