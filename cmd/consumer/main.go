package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	messagestream "github.com/KGS-Ben/message-stream/pkg/messagestream"
)

func main() {
	// Parse flags
	redisURL := flag.String("url", getEnv("REDIS_URL", "redis://localhost:6379"), "Redis connection string")
	stream := flag.String("stream", "", "Stream name (required)")
	consumer := flag.String("consumer", os.Getenv("CONSUMER_NAME"), "Consumer identity (auto-generated if empty)")
	drain := flag.Bool("drain", false, "Exit after the first empty poll")

	flag.Parse()

	// Validate required flags
	if *stream == "" {
		fmt.Fprintln(os.Stderr, "Error: --stream is required")
		flag.Usage()
		os.Exit(1)
	}

	cfg := messagestream.ConfigFromEnv()
	cfg.Redis.URL = *redisURL
	cfg.Consumer.Name = *consumer

	ms := messagestream.NewMessageStream(*stream, cfg)

	ctx := context.Background()
	if err := ms.Connect(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to connect to Redis at %s: %v\n", *redisURL, err)
		os.Exit(1)
	}
	defer ms.Disconnect(ctx)

	fmt.Printf("# Consumer %s reading from stream: %s. Press Ctrl+C to exit.\n\n", ms.ConsumerName(), *stream)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sigCh:
			fmt.Println("\nShutting down...")
			return
		default:
		}

		msg, err := ms.ConsumeMessage(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if msg == nil {
			if *drain {
				fmt.Println("No more messages, exiting.")
				return
			}
			continue
		}

		fmt.Printf("Received: %s %s\n", msg.ID, string(msg.Message))
	}
}

// getEnv returns the value of an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
