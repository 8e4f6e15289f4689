// Command 9pfsd serves an in-memory 9P2000 filesystem over TCP or a
// Unix socket, for manual testing against any 9P client.
package main

import (
	"fmt"
	"log/slog"
	"net"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/kestrel9p/ninep"
	"github.com/kestrel9p/ninep/dial"
	"github.com/kestrel9p/ninep/memfs"
	"github.com/kestrel9p/ninep/server"
)

func main() {
	var (
		listenAddr string
		msize      uint32
	)

	cmd := &cobra.Command{
		Use:   "9pfsd",
		Short: "Serve an in-memory 9P2000 filesystem",
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := dial.ParseAddr(listenAddr)
			if err != nil {
				return err
			}
			l, err := dial.Listen(addr)
			if err != nil {
				return err
			}
			defer l.Close()

			fs := memfs.NewFS()
			fs.WriteFile("hello", 0644, []byte("hello, 9p\n"))

			log := slog.Default()
			log.Info("9pfsd: listening", "addr", listenAddr, "msize", msize)
			return serveAll(l, fs, msize, log)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&listenAddr, "listen", "l", "tcp!127.0.0.1!5640", "dial-string address to listen on")
	flags.Uint32Var(&msize, "msize", ninep.DefaultMsize, "maximum 9P message size")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// serveAll accepts connections until the listener closes, running
// each session under an errgroup. A session that ends with an error is
// logged and does not stop the others; once Accept fails, serveAll
// waits for every session to end and returns Accept's error.
func serveAll(l net.Listener, fs *memfs.FS, msize uint32, log *slog.Logger) error {
	var g errgroup.Group
	for {
		conn, err := l.Accept()
		if err != nil {
			g.Wait()
			return err
		}
		g.Go(func() error {
			defer conn.Close()
			srv := server.New(conn, fs, server.WithMsize(msize), server.WithLogger(log))
			if err := srv.Run(); err != nil {
				log.Warn("9pfsd: session ended", "remote", conn.RemoteAddr(), "err", err)
			}
			return nil
		})
	}
}
