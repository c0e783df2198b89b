package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/iudanet/objsync/internal/client/api"
	"github.com/iudanet/objsync/internal/client/auth"
	"github.com/iudanet/objsync/internal/client/iocli"
	"github.com/iudanet/objsync/internal/client/storage"
	"github.com/iudanet/objsync/internal/client/sync"
)

// ErrUnknownCommand is returned by Run for commands it does not know
var ErrUnknownCommand = errors.New("unknown command")

type Cli struct {
	io          iocli.IO
	authService auth.Service
	syncService sync.Service
	cache       storage.ObjectCache
	newID       func() string
}

func New(io iocli.IO, authService auth.Service, syncService sync.Service, cache storage.ObjectCache, newID func() string) *Cli {
	return &Cli{
		io:          io,
		authService: authService,
		syncService: syncService,
		cache:       cache,
		newID:       newID,
	}
}

// Run выполняет команду; args не включают имя команды
func (c *Cli) Run(ctx context.Context, command string, args []string) error {
	var err error

	switch command {
	case "login":
		err = c.runLogin(ctx, args)
	case "logout":
		err = c.runLogout(ctx)
	case "status":
		err = c.runStatus(ctx)
	case "push":
		err = c.runPush(ctx, args)
	case "pull":
		err = c.runPull(ctx)
	case "list":
		err = c.runList(ctx)
	case "get":
		err = c.runGet(ctx, args)
	case "help":
		c.PrintUsage()
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, command)
	}

	return explain(err)
}

// explain добавляет подсказку к ошибкам, после которых нужен повторный вход
func explain(err error) error {
	if api.IsStatus(err, http.StatusForbidden) {
		return fmt.Errorf("%w (token expired or revoked, run 'objsync login')", err)
	}
	return err
}

func (c *Cli) PrintUsage() {
	c.io.Println("objsync client")
	c.io.Println()
	c.io.Println("Usage:")
	c.io.Println("  objsync [OPTIONS] COMMAND [ARGS]")
	c.io.Println()
	c.io.Println("Options:")
	c.io.Println("  -version                 Show version information")
	c.io.Println("  -server URL              Server URL (default: http://127.0.0.1:8000)")
	c.io.Println("  -db PATH                 Path to local database (default: objsync-client.db)")
	c.io.Println()
	c.io.Println("Commands:")
	c.io.Println("  login [-u USERNAME]      Exchange username and password for a token")
	c.io.Println("  logout                   Revoke the token and forget it")
	c.io.Println("  status                   Show session and sync state")
	c.io.Println("  push [ID] JSON           Store an object on the server (random ID if omitted)")
	c.io.Println("  pull                     Fetch changes since the last pull")
	c.io.Println("  list                     List locally cached objects")
	c.io.Println("  get [-remote] ID         Show one object")
	c.io.Println()
	c.io.Println("Examples:")
	c.io.Println("  objsync login -u alice")
	c.io.Println(`  objsync push note-1 '{"title":"hello"}'`)
	c.io.Println("  objsync pull")
}
