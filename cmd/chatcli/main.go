// Консольный клиент для ручной проверки сервера: показывает чаты,
// историю выбранного чата и умеет отправить сообщение.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"quickchat/internal/client"
)

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "server base URL")
	token := flag.String("token", os.Getenv("QUICKCHAT_TOKEN"), "bearer token")
	flag.Parse()

	if *token == "" {
		log.Fatal("token is required: pass -token or set QUICKCHAT_TOKEN")
	}

	api := client.NewHTTPClient(*baseURL, *token)
	ctrl := client.NewController(api)

	ctx := context.Background()
	if err := ctrl.Load(ctx); err != nil {
		log.Fatalf("failed to load: %v", err)
	}

	fmt.Printf("Logged in as %s\n", ctrl.User().Name)
	for _, chat := range ctrl.Chats() {
		fmt.Printf("  [%d] %s\n", chat.ID, ctrl.ChatTitle(chat))
	}

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("commands: open <id>, send <text>, search <query>, quit")

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}

		line := strings.TrimSpace(scanner.Text())
		cmd, arg, _ := strings.Cut(line, " ")

		switch cmd {
		case "open":
			id, err := strconv.Atoi(arg)
			if err != nil {
				fmt.Println("usage: open <id>")
				continue
			}
			ctrl.SelectChat(ctx, uint(id))
			time.Sleep(200 * time.Millisecond)
			for _, msg := range ctrl.Messages() {
				prefix := "  "
				if msg.SenderID == ctrl.User().ID {
					prefix = "me"
				}
				fmt.Printf("%s %s\n", prefix, msg.Message)
			}
		case "send":
			ctrl.ComposeDraft(arg)
			if err := ctrl.SubmitMessage(ctx); err != nil {
				fmt.Printf("send failed: %v\n", err)
			}
		case "search":
			ctrl.SearchInput(ctx, arg)
			time.Sleep(200 * time.Millisecond)
			for _, user := range ctrl.SearchResults() {
				fmt.Printf("  [%d] %s\n", user.ID, user.Name)
			}
		case "quit", "exit":
			return
		default:
			fmt.Println("commands: open <id>, send <text>, search <query>, quit")
		}

		if err := ctrl.LastErr(); err != nil {
			fmt.Printf("error: %v\n", err)
		}
	}
}
