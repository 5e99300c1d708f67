// Hangman client — CLI entry point.
//
// Connects to a hangman server, renders its packets, and forwards the
// player's guesses. Usage: hangman-client <server_host> <server_port>
package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"

	"github.com/pterm/pterm"

	"github.com/mkrenn/hangman/internal/client"
	"github.com/mkrenn/hangman/internal/util"
)

var version = "dev"

func main() {
	// Root context — cancelled on Ctrl+C.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if len(os.Args) != 3 {
		util.LogError("usage: %s <server_host> <server_port>", os.Args[0])
		os.Exit(1)
	}
	host := os.Args[1]
	port, err := strconv.Atoi(os.Args[2])
	if err != nil || port < 1 || port > 65535 {
		util.LogError("invalid port number: must be 1 ~ 65535")
		os.Exit(1)
	}

	pterm.Info.Println(fmt.Sprintf("Hangman — v%s", version))
	pterm.Println()

	addr := net.JoinHostPort(host, os.Args[2])
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		util.LogError("failed to connect to %s: %v", addr, err)
		os.Exit(1)
	}
	defer conn.Close()

	// Unblock reads on Ctrl+C by closing the connection.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	if err := client.New(conn, os.Stdin, os.Stdout).Run(); err != nil {
		select {
		case <-ctx.Done():
			// Interrupted — the read error is expected.
		default:
			util.LogError("connection lost: %v", err)
			os.Exit(1)
		}
	}
}
