// Command bot is an example single-bot runner, adapted from the
// teacher's cmd/server/main.go (flag parsing into a config struct,
// then run until a signal or internal stop) — generalized from
// starting a listening server to joining one as a client. Per spec.md
// §1, a full-featured bot binary is out of scope; this only proves
// the library wires together end to end.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	vibeclient "github.com/StoreStation/vibeclient"
	"github.com/StoreStation/vibeclient/internal/handlers"
	"github.com/StoreStation/vibeclient/internal/telemetry"
)

func main() {
	address := flag.String("address", "localhost:25565", "Server address to join")
	name := flag.String("name", "Bot", "Account name (offline mode)")
	viewDistance := flag.Int("view-distance", 8, "Requested view distance in chunks")
	debug := flag.Bool("debug", false, "Use human-readable development logging")
	flag.Parse()

	log.Printf("vibeclient bot joining %s as %s", *address, *name)

	logger, err := telemetry.NewLogger(*debug)
	if err != nil {
		log.Fatalf("building logger: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, events, err := vibeclient.Join(ctx, vibeclient.Offline(*name), *address,
		vibeclient.WithLogger(logger),
		vibeclient.WithViewDistance(int8(*viewDistance)),
	)
	if err != nil {
		log.Fatalf("join failed: %v", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		log.Println("shutting down (received signal)...")
		_ = client.Disconnect()
	}()

	for {
		ev, ok := events.Recv()
		if !ok {
			logger.Info("event channel closed, exiting")
			return
		}
		switch e := ev.(type) {
		case handlers.LoginEvent:
			logger.Infow("logged in", "local", client.Local())
		case handlers.ChatEvent:
			logger.Infow("chat", "sender", e.Sender, "message", e.Message.PlainText())
		case handlers.AddPlayerEvent:
			logger.Infow("player joined", "name", e.Info.Name)
		case handlers.RemovePlayerEvent:
			logger.Infow("player left", "name", e.Info.Name)
		case handlers.DeathEvent:
			logger.Infow("died", "reason", e.Reason)
		case handlers.DisconnectEvent:
			logger.Infow("disconnected", "reason", e.Reason)
			return
		}
	}
}
