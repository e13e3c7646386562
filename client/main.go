// Terminal client for the side-stacker server. Connects, prints game
// snapshots as they arrive and sends moves typed as "<row> <side>",
// for example: row3 left
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

const boardSize = 7

type serverMessage struct {
	Type    string `json:"type"`
	Piece   string `json:"piece"`
	Message string `json:"message"`
	Game    *struct {
		State        string `json:"state"`
		PlayingPiece string `json:"playingPiece"`
		Winner       string `json:"winner"`
		Board        map[string]struct {
			InsertedFromLeft  []string `json:"insertedFromLeft"`
			InsertedFromRight []string `json:"insertedFromRight"`
		} `json:"board"`
	} `json:"game"`
}

func main() {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	host := "localhost:8080"
	if len(os.Args) > 1 {
		host = os.Args[1]
	}

	u := url.URL{Scheme: "ws", Host: host, Path: "/ws"}
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
			_, payload, err := c.ReadMessage()
			if err != nil {
				log.Println("Read error:", err)
				return
			}
			printMessage(payload)
		}
	}()

	fmt.Println(`Type moves as "<row> <side>", e.g. "row3 left".`)

	// Write loop
	reader := bufio.NewReader(os.Stdin)
	for {
		select {
		case <-done:
			return
		case <-interrupt:
			log.Println("Interrupt received, closing connection.")
			err := c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			if err != nil {
				log.Println("Write close error:", err)
			}
			select {
			case <-done:
			case <-time.After(time.Second):
			}
			return
		default:
			line, _ := reader.ReadString('\n')
			fields := strings.Fields(line)
			if len(fields) != 2 {
				continue
			}

			move, _ := json.Marshal(map[string]string{"row": fields[0], "side": fields[1]})
			if err := c.WriteMessage(websocket.TextMessage, move); err != nil {
				log.Println("Write error:", err)
				return
			}
		}
	}
}

func printMessage(payload []byte) {
	var msg serverMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		log.Printf("Unparseable message: %s", payload)
		return
	}

	switch msg.Type {
	case "connected":
		fmt.Printf("Connected, you play %s\n", msg.Piece)
	case "opponentLeft":
		fmt.Println("Your opponent left the game.")
	case "error":
		fmt.Printf("Rejected: %s\n", msg.Message)
	case "gameUpdate":
		printGame(msg)
	default:
		log.Printf("Unknown message type %q", msg.Type)
	}
}

func printGame(msg serverMessage) {
	if msg.Game == nil {
		return
	}

	for i := 1; i <= boardSize; i++ {
		row := msg.Game.Board[fmt.Sprintf("row%d", i)]
		cells := make([]string, boardSize)
		for j := range cells {
			cells[j] = "."
		}
		copy(cells, row.InsertedFromLeft)
		offset := boardSize - len(row.InsertedFromRight)
		for j, p := range row.InsertedFromRight {
			cells[offset+j] = p
		}
		fmt.Println(strings.Join(cells, " "))
	}

	switch msg.Game.State {
	case "over":
		fmt.Printf("Game over, %s wins!\n", msg.Game.Winner)
	default:
		fmt.Printf("%s to move.\n", msg.Game.PlayingPiece)
	}
}
