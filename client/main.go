package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/websocket"
)

// envelope mirrors network.Envelope; the client stays dependency-free on
// the server packages so it can live in its own binary.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type stateUpdate struct {
	State       string `json:"state"`
	DrawCount   uint64 `json:"draw_count"`
	Speed       int    `json:"speed"`
	PlayerCount int    `json:"player_count"`
	Latest      *struct {
		Whites    [5]int `json:"whites"`
		Powerball int    `json:"powerball"`
	} `json:"latest"`
}

func main() {
	addr := flag.String("addr", "localhost:8080", "server address")
	playerID := flag.String("player", "", "follow a single player id")
	flag.Parse()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	u := url.URL{Scheme: "ws", Host: *addr, Path: "/ws"}
	if *playerID != "" {
		u.RawQuery = "player_id=" + url.QueryEscape(*playerID)
	}
	log.Printf("Connecting to %s", u.String())

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	defer c.Close()

	done := make(chan struct{})

	// Read loop
	go func() {
		defer close(done)
		for {
			var env envelope
			if err := c.ReadJSON(&env); err != nil {
				log.Println("Read error:", err)
				return
			}
			printEvent(env)
		}
	}()

	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-done:
			return
		case <-heartbeat.C:
			if err := c.WriteJSON(envelope{Event: "heartbeat"}); err != nil {
				log.Println("Write error:", err)
				return
			}
		case <-interrupt:
			log.Println("Interrupted, closing connection")
			c.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			select {
			case <-done:
			case <-time.After(time.Second):
			}
			return
		}
	}
}

func printEvent(env envelope) {
	switch env.Event {
	case "state_update":
		var s stateUpdate
		if err := json.Unmarshal(env.Data, &s); err != nil {
			return
		}
		line := fmt.Sprintf("[%s] drawings=%d speed=%d/s players=%d",
			s.State, s.DrawCount, s.Speed, s.PlayerCount)
		if s.Latest != nil {
			line += fmt.Sprintf(" last=%v pb=%d", s.Latest.Whites, s.Latest.Powerball)
		}
		log.Println(line)
	case "jackpot":
		log.Printf("*** JACKPOT *** %s", string(env.Data))
	default:
		log.Printf("%s: %s", env.Event, string(env.Data))
	}
}
