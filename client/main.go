package main

import (
	"bufio"
	"encoding/json"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"
)

type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// send formats and sends an envelope to the game server.
func send(c *websocket.Conn, msgType string, payload interface{}) error {
	env := envelope{Type: msgType}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		env.Data = data
	}
	frame, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return c.WriteMessage(websocket.TextMessage, frame)
}

func main() {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	u := url.URL{Scheme: "ws", Host: "localhost:8080", Path: "/ws"}
	log.Printf("Connecting to %s", u.String())

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	defer c.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, data, err := c.ReadMessage()
			if err != nil {
				log.Printf("Read error: %v", err)
				return
			}
			var env envelope
			if err := json.Unmarshal(data, &env); err != nil {
				continue
			}
			log.Printf("<- %s %s", env.Type, string(env.Data))
		}
	}()

	log.Println("Commands: join CODE [NAME] | place CARD TILE ROT | rockfall CARD TILE | tool CARD TARGET | restart")

	input := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			input <- scanner.Text()
		}
		close(input)
	}()

	for {
		select {
		case line, ok := <-input:
			if !ok {
				return
			}
			if err := handle(c, line); err != nil {
				log.Printf("Send failed: %v", err)
				return
			}
		case <-done:
			return
		case <-interrupt:
			log.Println("Interrupted, closing connection")
			c.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

func handle(c *websocket.Conn, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	switch fields[0] {
	case "join":
		if len(fields) < 2 {
			log.Println("Usage: join CODE [NAME]")
			return nil
		}
		name := ""
		if len(fields) > 2 {
			name = fields[2]
		}
		return send(c, "join", map[string]string{"code": fields[1], "name": name})
	case "place":
		if len(fields) < 4 {
			log.Println("Usage: place CARD TILE ROT")
			return nil
		}
		rot, _ := strconv.Atoi(fields[3])
		return send(c, "place_card", map[string]interface{}{
			"card_id": fields[1], "tile_id": fields[2], "rotation": rot,
		})
	case "rockfall":
		if len(fields) < 3 {
			log.Println("Usage: rockfall CARD TILE")
			return nil
		}
		return send(c, "rockfall", map[string]string{"card_id": fields[1], "tile_id": fields[2]})
	case "tool":
		if len(fields) < 3 {
			log.Println("Usage: tool CARD TARGET")
			return nil
		}
		return send(c, "tool_effect", map[string]string{"card_id": fields[1], "target_id": fields[2]})
	case "restart":
		return send(c, "restart", nil)
	default:
		log.Printf("Unknown command %q", fields[0])
		return nil
	}
}
