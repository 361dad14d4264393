package main

import (
	"context"
	"encoding/json"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	kafkaBroker = "localhost:9092"
	topic       = "event-stream"

	keyCardinality = 5000
	meanValue      = 50.0
	valueStdDev    = 10.0
)

// wireEvent matches the JSON shape the streampulse Kafka source expects.
type wireEvent struct {
	Key       string    `json:"key"`
	Value     float64   `json:"value"`
	EmittedAt time.Time `json:"emitted_at"`
}

func main() {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(kafkaBroker),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
	defer func() {
		if err := writer.Close(); err != nil {
			log.Fatalf("Error closing kafka writer: %v", err)
		}
	}()
	log.Printf("Starting sample producer for topic: %s on broker: %s", topic, kafkaBroker)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-signals
		log.Println("Shutdown signal received, stopping producer...")
		cancel()
	}()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for {
		msg := wireEvent{
			Key:       strconv.Itoa(rng.Intn(keyCardinality) + 1),
			Value:     meanValue + rng.NormFloat64()*valueStdDev,
			EmittedAt: time.Now(),
		}
		msgBytes, err := json.Marshal(msg)
		if err != nil {
			log.Printf("Error marshalling event: %v", err)
			continue
		}

		if err := writer.WriteMessages(ctx, kafka.Message{Value: msgBytes}); err != nil {
			if ctx.Err() != nil {
				log.Println("Context cancelled, exiting message loop.")
				return
			}
			log.Printf("Error writing message: %v", err)
		}

		// ~100 events/sec, jittered like real traffic.
		pause := time.Duration(rng.Float64() * float64(20*time.Millisecond))
		select {
		case <-time.After(pause):
		case <-ctx.Done():
			log.Println("Producer loop stopped.")
			return
		}
	}
}
