package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL dispatches to.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool

	Register(ctx context.Context, args []string) error
	Login(ctx context.Context, args []string) error
	LoginWithCode(ctx context.Context, args []string) error
	ForgotPassword(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error
	WhoAmI(ctx context.Context, args []string) error

	KnowledgeBases(ctx context.Context, args []string) error
	CreateKnowledgeBase(ctx context.Context, args []string) error
	RenameKnowledgeBase(ctx context.Context, args []string) error
	DeleteKnowledgeBase(ctx context.Context, args []string) error
	UseKnowledgeBase(ctx context.Context, args []string) error

	Files(ctx context.Context, args []string) error
	Upload(ctx context.Context, args []string) error
	RenameFile(ctx context.Context, args []string) error
	Trash(ctx context.Context, args []string) error
	Download(ctx context.Context, args []string) error

	Assistants(ctx context.Context, args []string) error
	CreateAssistant(ctx context.Context, args []string) error
	DeleteAssistant(ctx context.Context, args []string) error
	Chats(ctx context.Context, args []string) error
	NewChat(ctx context.Context, args []string) error
	OpenChat(ctx context.Context, args []string) error
	Say(ctx context.Context, args []string) error

	Users(ctx context.Context, args []string) error
	EditUser(ctx context.Context, args []string) error
	DeleteUser(ctx context.Context, args []string) error
}

type command func(e execIface, ctx context.Context, args []string) error

var guestCommands = map[string]command{
	"register":  execIface.Register,
	"login":     execIface.Login,
	"logincode": execIface.LoginWithCode,
	"forgot":    execIface.ForgotPassword,
}

var userCommands = map[string]command{
	"whoami":     execIface.WhoAmI,
	"logout":     execIface.Logout,
	"kbs":        execIface.KnowledgeBases,
	"kbnew":      execIface.CreateKnowledgeBase,
	"kbrename":   execIface.RenameKnowledgeBase,
	"kbdel":      execIface.DeleteKnowledgeBase,
	"use":        execIface.UseKnowledgeBase,
	"files":      execIface.Files,
	"upload":     execIface.Upload,
	"rename":     execIface.RenameFile,
	"trash":      execIface.Trash,
	"download":   execIface.Download,
	"assistants": execIface.Assistants,
	"asnew":      execIface.CreateAssistant,
	"asdel":      execIface.DeleteAssistant,
	"chats":      execIface.Chats,
	"newchat":    execIface.NewChat,
	"open":       execIface.OpenChat,
	"say":        execIface.Say,
	"users":      execIface.Users,
	"useredit":   execIface.EditUser,
	"userdel":    execIface.DeleteUser,
}

const guestHelp = `Available commands:
  register             create an account (a code is mailed to you)
  login                sign in with email and password
  logincode            sign in with a code sent to your email
  forgot               reset a forgotten password
  exit | quit          leave the program`

const userHelp = `Available commands:
  kbs [filter]                 list knowledge bases
  kbnew [name]                 create a knowledge base
  kbrename <id> [name]         rename a knowledge base
  kbdel <id>                   delete a knowledge base
  use <id>                     select the knowledge base files work on
  files [page] [filter]        list files of the selected knowledge base
  upload <path>...             upload files into the selected knowledge base
  rename <id> [name]           rename a file
  trash <id>...                delete files
  download <id>                save a file locally
  assistants                   list chat assistants
  asnew                        configure a new assistant
  asdel <id>                   delete an assistant
  chats <assistant-id>         list conversations of an assistant
  newchat <assistant-id>       start a conversation
  open <chat-id>               open a conversation and show its history
  say [text]                   send a message to the open conversation
  users [page] [username]      search users
  useredit <id>                edit a user
  userdel <id>                 delete a user
  whoami                       show the signed-in account
  logout                       sign out
  exit | quit                  leave the program`

// runREPL starts a simple read–eval–print loop for the console.
//
// It reads a line from reader, parses the first token as the command and
// dispatches to methods on 'a' with the remaining tokens as arguments. The
// set of accepted commands depends on whether a session is active. Errors
// returned by commands are turned into short notices for the user; the loop
// keeps going. It exits on EOF, on a cancelled ctx, or when the user types
// "exit" or "quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("kb %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(userHelp)
			} else {
				printlnFn(guestHelp)
			}
			continue

		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		var run command
		var known bool
		if a.isLoggedIn() {
			run, known = userCommands[cmd]
		} else {
			run, known = guestCommands[cmd]
			if _, needsLogin := userCommands[cmd]; needsLogin {
				printlnFn("Please log in first.")
				continue
			}
		}
		if !known {
			printlnFn("Unknown command:", cmd)
			continue
		}

		if err := run(a, ctx, args); err != nil {
			for _, l := range notice(err) {
				printlnFn(l)
			}
		}
	}
}
