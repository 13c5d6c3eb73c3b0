// Command ignite is the client CLI: it speaks the TCP protocol to an
// ignite-server process to get, set, and remove keys.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ignitedb/ignite/internal/client"
	"github.com/ignitedb/ignite/pkg/errors"
)

const usage = `usage:
  ignite get [-addr 127.0.0.1:4000] <key>
  ignite set [-addr 127.0.0.1:4000] <key> <value>
  ignite rm [-addr 127.0.0.1:4000] <key>
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	subcmd := os.Args[1]
	args := os.Args[2:]

	switch subcmd {
	case "get":
		runGet(args)
	case "set":
		runSet(args)
	case "rm":
		runRemove(args)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func runGet(args []string) {
	fs := flag.NewFlagSet("get", flag.ExitOnError)
	addr := fs.String("addr", "127.0.0.1:4000", "server address")
	fs.Parse(args)

	if fs.NArg() != 1 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
	key := fs.Arg(0)

	c, err := client.Connect(*addr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer c.Close()

	value, found, err := c.Get(key)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if !found {
		fmt.Println("Key not found")
		os.Exit(0)
	}
	fmt.Println(value)
}

func runSet(args []string) {
	fs := flag.NewFlagSet("set", flag.ExitOnError)
	addr := fs.String("addr", "127.0.0.1:4000", "server address")
	fs.Parse(args)

	if fs.NArg() != 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
	key, value := fs.Arg(0), fs.Arg(1)

	c, err := client.Connect(*addr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer c.Close()

	if err := c.Set(key, value); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runRemove(args []string) {
	fs := flag.NewFlagSet("rm", flag.ExitOnError)
	addr := fs.String("addr", "127.0.0.1:4000", "server address")
	fs.Parse(args)

	if fs.NArg() != 1 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
	key := fs.Arg(0)

	c, err := client.Connect(*addr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer c.Close()

	if err := c.Remove(key); err != nil {
		if errors.IsKeyNotFound(err) {
			fmt.Fprintln(os.Stderr, "Key not found")
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
