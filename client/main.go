// client/main.go
//
// Interactive test client. Type "start" to begin a game; the client then
// plays itself by echoing every revealed sequence back in order, so a full
// run exercises reveal, input, scoring and progression end to end.
package main

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

const (
	MsgTypeStartGame      = 101
	MsgTypeResetGame      = 102
	MsgTypeBeginInput     = 103
	MsgTypeTileClick      = 201
	MsgTypeStateSync      = 301
	MsgTypeSequenceReveal = 302
	MsgTypeRoundResult    = 303
	MsgTypeGameOver       = 304
)

type revealPayload struct {
	Sequence   []int `json:"sequence"`
	TileMillis int   `json:"tile_millis"`
}

type snapshotPayload struct {
	Phase string `json:"phase"`
	Level int    `json:"level"`
	Score int    `json:"score"`
}

// send formats and sends a message to the WebSocket server.
func send(c *websocket.Conn, msgID uint16, data []byte) error {
	packet := make([]byte, 4+len(data))
	binary.BigEndian.PutUint16(packet[0:2], msgID)
	binary.BigEndian.PutUint16(packet[2:4], uint16(len(data)))
	copy(packet[4:], data)

	return c.WriteMessage(websocket.BinaryMessage, packet)
}

func sendClicks(c *websocket.Conn, reveal revealPayload) {
	// Pretend to watch the reveal animation, then claim the input phase and
	// echo the sequence back.
	time.Sleep(time.Duration(reveal.TileMillis*len(reveal.Sequence)) * time.Millisecond)
	if err := send(c, MsgTypeBeginInput, []byte{}); err != nil {
		log.Println("Write error:", err)
		return
	}

	for _, id := range reveal.Sequence {
		click, _ := json.Marshal(map[string]int{"tile_id": id})
		if err := send(c, MsgTypeTileClick, click); err != nil {
			log.Println("Write error:", err)
			return
		}
		time.Sleep(150 * time.Millisecond)
	}
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

	// Read loop
	go func() {
		defer close(done)
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				log.Println("Read error:", err)
				return
			}
			if len(message) < 4 {
				log.Printf("Received invalid packet of size %d", len(message))
				continue
			}
			msgID := binary.BigEndian.Uint16(message[0:2])
			data := message[4:]

			switch msgID {
			case MsgTypeSequenceReveal:
				var reveal revealPayload
				if err := json.Unmarshal(data, &reveal); err != nil {
					log.Printf("Bad reveal payload: %v", err)
					continue
				}
				log.Printf("<- REVEAL: %v", reveal.Sequence)
				go sendClicks(c, reveal)
			case MsgTypeRoundResult:
				var snap snapshotPayload
				_ = json.Unmarshal(data, &snap)
				log.Printf("<- ROUND CLEARED: level %d, score %d", snap.Level, snap.Score)
			case MsgTypeGameOver:
				var snap snapshotPayload
				_ = json.Unmarshal(data, &snap)
				log.Printf("<- GAME OVER: level %d, score %d", snap.Level, snap.Score)
			default:
				log.Printf("<- RECV (ID: %d): %s", msgID, string(data))
			}
		}
	}()

	log.Println("Client started. Type 'start' to play, 'reset' to reset.")

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
			text, _ := reader.ReadString('\n')
			text = strings.TrimSpace(text)

			switch text {
			case "start":
				if err := send(c, MsgTypeStartGame, []byte{}); err != nil {
					log.Println("Write error:", err)
					return
				}
				log.Println("-> SENT: start game")
			case "reset":
				if err := send(c, MsgTypeResetGame, []byte{}); err != nil {
					log.Println("Write error:", err)
					return
				}
				log.Println("-> SENT: reset game")
			}
		}
	}
}
