// Package main provides a terminal client that tails a user's realtime feed.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
)

func main() {
	host := flag.String("host", "localhost:8471", "API server host")
	username := flag.String("username", "", "Username to log in as")
	password := flag.String("password", "password123", "Password")
	flag.Parse()

	if *username == "" {
		log.Fatal("-username is required")
	}

	token, err := login(*host, *username, *password)
	if err != nil {
		log.Fatalf("Login failed: %v", err)
	}
	log.Printf("Logged in as %s", *username)

	ticket, err := fetchTicket(*host, token)
	if err != nil {
		log.Fatalf("Ticket request failed: %v", err)
	}

	wsURL := url.URL{
		Scheme:   "ws",
		Host:     *host,
		Path:     "/api/ws/feed",
		RawQuery: "ticket=" + url.QueryEscape(ticket),
	}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL.String(), nil)
	if err != nil {
		log.Fatalf("Websocket dial failed: %v", err)
	}
	defer func() { _ = conn.Close() }()
	log.Println("Connected, watching feed events (Ctrl-C to quit)...")

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				log.Printf("read: %v", err)
				return
			}
			printEvent(message)
		}
	}()

	select {
	case <-done:
	case <-interrupt:
		log.Println("Closing connection...")
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		select {
		case <-done:
		case <-time.After(time.Second):
		}
	}
}

func login(host, username, password string) (string, error) {
	body, _ := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	resp, err := http.Post(
		fmt.Sprintf("http://%s/api/auth/login", host),
		"application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login returned %d", resp.StatusCode)
	}

	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", fmt.Errorf("no token in login response")
	}
	return out.Token, nil
}

func fetchTicket(host, token string) (string, error) {
	req, err := http.NewRequest(http.MethodPost,
		fmt.Sprintf("http://%s/api/ws/ticket", host), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ticket endpoint returned %d", resp.StatusCode)
	}

	var out struct {
		Ticket string `json:"ticket"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.Ticket, nil
}

func printEvent(raw []byte) {
	var event struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(raw, &event); err != nil {
		fmt.Printf("%s %s\n", time.Now().Format("15:04:05"), raw)
		return
	}
	fmt.Printf("%s [%s] %s\n", time.Now().Format("15:04:05"), event.Type, event.Payload)
}
