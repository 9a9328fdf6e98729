package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/nullblock/tinyblockfs/disk"
	"github.com/nullblock/tinyblockfs/server"
	"github.com/nullblock/tinyblockfs/tinyfs"
)

func main() {
	app := cli.App{
		Usage: "Serve a tinyblockfs image over TCP",
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Mount an image and accept connections",
				Action: runServer,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "addr",
						Value: "127.0.0.1:6000",
						Usage: "address to listen on",
					},
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

func runServer(c *cli.Context) error {
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

	srv, err := server.Bind(c.String("addr"), fs)
	if err != nil {
		return err
	}
	defer srv.Close()

	log.Printf("listening on %s, image %s", srv.Addr(), c.String("image"))
	return srv.Run()
}
