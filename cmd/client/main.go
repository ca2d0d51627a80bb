package main

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/gookit/color"

	"tchat/domain"
	"tchat/transport"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitBadPort = 1
)

const (
	defaultHost = "127.0.0.1"
	defaultPort = 5555
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	host, port, code, err := parseArgs(os.Args[1:])
	if err != nil {
		return code, err
	}

	printBanner()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := net.JoinHostPort(host, strconv.Itoa(port))
	netConn, err := net.Dial("tcp", addr)
	if err != nil {
		color.Red.Println("Could not reach the server. Make sure it is running.")
		return exitOK, nil
	}
	conn := transport.NewConn(netConn)
	defer conn.Close()

	// Close the socket on Ctrl+C so the receive loop unblocks.
	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	if err := negotiate(conn); err != nil {
		if ctx.Err() != nil {
			return exitOK, nil
		}
		return exitOK, err
	}

	color.Green.Printf("Connected to %s\n", addr)
	color.Green.Println("You can start chatting!")

	go sendLoop(conn)

	return receiveLoop(ctx, conn)
}

// parseArgs reads the optional positional host and port arguments.
func parseArgs(args []string) (host string, port, code int, err error) {
	host, port = defaultHost, defaultPort
	if len(args) >= 1 {
		host = args[0]
	}
	if len(args) >= 2 {
		port, err = strconv.Atoi(args[1])
		if err != nil {
			return "", 0, exitBadPort, fmt.Errorf("port must be a number, got %q", args[1])
		}
	}
	return host, port, exitOK, nil
}

// negotiate waits for the name prompt and submits a non-empty display name.
// The empty-name retry loop lives here on the client side; the server
// evaluates a single proposal.
func negotiate(conn *transport.Conn) error {
	line, err := conn.ReadLine()
	if err != nil {
		return fmt.Errorf("negotiation: %w", err)
	}
	if strings.TrimSpace(line) != domain.TokenEnterName {
		return fmt.Errorf("unexpected server greeting: %q", line)
	}

	stdin := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("Enter your name: ")
		name, err := stdin.ReadString('\n')
		if err != nil {
			return fmt.Errorf("reading name: %w", err)
		}
		name = strings.TrimSpace(name)
		if name == "" {
			color.Yellow.Println("The name cannot be empty!")
			continue
		}
		return conn.SendLine(name)
	}
}

// sendLoop relays stdin lines to the server until stdin closes or a send
// fails. /quit is relayed too, then the receive loop observes the close.
func sendLoop(conn *transport.Conn) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := conn.SendLine(line); err != nil {
			return
		}
		if strings.EqualFold(line, string(domain.CmdQuit)) {
			return
		}
	}
}

// receiveLoop prints everything the server sends until rejection, shutdown
// or disconnection.
func receiveLoop(ctx context.Context, conn *transport.Conn) (int, error) {
	for {
		line, err := conn.ReadLine()
		if err != nil {
			if ctx.Err() != nil {
				color.Yellow.Println("\nDisconnecting...")
				return exitOK, nil
			}
			color.Yellow.Println("\nDisconnected from the server")
			return exitOK, nil
		}

		switch strings.TrimSpace(line) {
		case domain.TokenNameTaken:
			color.Red.Println("This name is already taken!")
			return exitOK, nil
		case domain.TokenServerShutdown:
			color.Yellow.Println("The server has been stopped")
			return exitOK, nil
		}

		printServerLine(line)
	}
}

func printServerLine(line string) {
	switch {
	case strings.HasPrefix(line, "[SYSTEM]"):
		color.Yellow.Println(line)
	case strings.Contains(line, "private message from"):
		color.Magenta.Println(line)
	default:
		fmt.Println(line)
	}
}

func printBanner() {
	frame := strings.Repeat("=", 50)
	color.Cyan.Println(frame)
	color.Cyan.Println("                 TCHAT - CHAT CLIENT")
	color.Cyan.Println(frame)
}
