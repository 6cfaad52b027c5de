package cli

import (
	"context"
	"fmt"
	"log"
	"strings"
)

func (a *App) getStatus() string {
	s := ""
	if a.Mode != "" {
		s = fmt.Sprintf("(%s)", a.Mode)
	}
	return s
}

func (a *App) Root(ctx context.Context) {

	log.Println("Welcome to MedSync CLI (type 'help' for commands)")

	go func() {
		a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
	}()

	for {
		fmt.Printf("msync %s> ", a.getStatus())
		line, err := a.reader.ReadString('\n')
		if err != nil {
			break
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			fmt.Println("Available commands: add <patientId> <text...>, (l)ist, pending, sync, verify, exit")

		case "add":
			if len(args) < 2 {
				fmt.Println("Usage: add <patientId> <text...>")
				continue
			}
			a.add(ctx, args[0], strings.Join(args[1:], " "))
		case "list", "l":
			a.list(ctx)
		case "pending":
			a.pending(ctx)
		case "sync":
			a.sync(ctx)
		case "verify":
			a.verify(ctx)
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", cmd)
		}
	}
}
