// Command portfoliochat is a terminal client for the portfolio site: it
// lists the projects and chats with the portfolio assistant.
package main

import "github.com/aufaim/portfoliochat/internal/commands"

func main() {
	commands.Execute()
}
