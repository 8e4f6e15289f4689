// Command 9pcat connects to a 9P2000 server and prints the contents
// of a single file to stdout, in the spirit of Plan 9's 9p(1) read.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kestrel9p/ninep"
	"github.com/kestrel9p/ninep/client"
	"github.com/kestrel9p/ninep/dial"
)

func main() {
	var (
		aname string
		msize uint32
	)

	cmd := &cobra.Command{
		Use:   "9pcat addr path",
		Short: "Print a file from a 9P2000 server",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := dial.ParseAddr(args[0])
			if err != nil {
				return err
			}
			conn, err := dial.Dial(addr)
			if err != nil {
				return err
			}
			defer conn.Close()

			c, err := client.Mount(conn, aname, msize)
			if err != nil {
				return fmt.Errorf("mount: %w", err)
			}
			defer c.Close()

			fid, err := c.Root().Open(args[1], 0 /* OREAD */)
			if err != nil {
				return fmt.Errorf("open %s: %w", args[1], err)
			}
			defer fid.Clunk()

			_, err = io.Copy(os.Stdout, fid)
			if err != nil && err != io.EOF {
				return fmt.Errorf("read %s: %w", args[1], err)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&aname, "aname", "", "attach name")
	flags.Uint32Var(&msize, "msize", ninep.DefaultMsize, "maximum 9P message size")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
