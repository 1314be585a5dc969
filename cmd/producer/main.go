package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	messagestream "github.com/KGS-Ben/message-stream/pkg/messagestream"
)

func main() {
	// Parse flags
	redisURL := flag.String("url", getEnv("REDIS_URL", "redis://localhost:6379"), "Redis connection string")
	stream := flag.String("stream", "", "Stream name (required)")

	var autoPayloads multiString
	flag.Var(&autoPayloads, "auto", "Send payloads and exit (can be repeated)")

	flag.Parse()

	// Validate required flags
	if *stream == "" {
		fmt.Fprintln(os.Stderr, "Error: --stream is required")
		flag.Usage()
		os.Exit(1)
	}

	cfg := messagestream.ConfigFromEnv()
	cfg.Redis.URL = *redisURL

	ms := messagestream.NewMessageStream(*stream, cfg)

	ctx := context.Background()
	if err := ms.Connect(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to connect to Redis at %s: %v\n", *redisURL, err)
		os.Exit(1)
	}
	defer ms.Disconnect(ctx)

	// Auto mode: send payloads and exit
	if len(autoPayloads) > 0 {
		for _, payload := range autoPayloads {
			id, err := publish(ctx, ms, payload)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error publishing message: %v\n", err)
				os.Exit(1)
			}

			fmt.Printf("Published: %s\n", id)
		}
		return
	}

	// Interactive mode: read from stdin
	fmt.Printf("# Producer ready. Enter JSON payloads (one per line). Press Ctrl+C to exit.\n")
	fmt.Printf("# Publishing to stream: %s\n\n", *stream)

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		id, err := publish(ctx, ms, line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}

		fmt.Printf("Published: %s\n", id)
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading stdin: %v\n", err)
		os.Exit(1)
	}
}

// publish sends one raw JSON payload, rejecting text that is not valid JSON.
func publish(ctx context.Context, ms *messagestream.MessageStream, payload string) (string, error) {
	var value interface{}
	if err := json.Unmarshal([]byte(payload), &value); err != nil {
		return "", fmt.Errorf("payload is not valid JSON: %w", err)
	}

	return ms.AddMessage(ctx, value)
}

// multiString allows multiple occurrences of the same flag
type multiString []string

func (m *multiString) String() string {
	return strings.Join(*m, ",")
}

func (m *multiString) Set(value string) error {
	*m = append(*m, value)
	return nil
}

// getEnv returns the value of an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
