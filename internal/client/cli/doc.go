// Package cli provides the interactive knowledge-base console.
//
// It wires configuration, the persisted session, the API services and a REPL.
// Typical flow: log in (password or mailed code), select a knowledge base with
// "use", then manage its files, assistants, conversations and users.
//
// Guest commands:
//   - register, login, logincode, forgot
//
// Signed-in commands:
//   - kbs, kbnew, kbrename, kbdel, use
//   - files, upload, rename, trash, download
//   - assistants, asnew, asdel, chats, newchat, open, say
//   - users, useredit, userdel
//   - whoami, logout
//
// When the session ends underneath a request (refresh failed, token gone) the
// prompt drops back to guest mode and the user is asked to log in again.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
