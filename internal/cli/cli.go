// Package cli implements the techblog command line.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/FACorreiaa/techblog/internal/app/domain/navigation"
	"github.com/FACorreiaa/techblog/internal/app/models"
	"github.com/FACorreiaa/techblog/internal/app/services"
)

// ErrUsage reports a bad command line. The usage text was already printed.
var ErrUsage = errors.New("usage")

type command struct {
	summary string
	// screen gates the command; empty means always available.
	screen navigation.Route
	run    func(ctx context.Context, c *CLI, args []string) error
}

var commands = map[string]command{
	"login":       {summary: "sign in: -email -password", run: runLogin},
	"logout":      {summary: "sign out and forget the stored session", run: runLogout},
	"whoami":      {summary: "show the signed-in user", run: runWhoami},
	"routes":      {summary: "list the screens reachable in this session", run: runRoutes},
	"feed":        {summary: "list posts: [-page N] [-q query]", screen: navigation.RouteFeed, run: runFeed},
	"post":        {summary: "show a post: -id", screen: navigation.RoutePostDetails, run: runPost},
	"post-save":   {summary: "create or edit a post: [-id] -title -content", screen: navigation.RoutePostForm, run: runPostSave},
	"post-delete": {summary: "delete a post: -id", screen: navigation.RouteManagePosts, run: runPostDelete},
	"users":       {summary: "list users: [-role TODOS|PROFESSOR|STUDENT]", screen: navigation.RouteManageUsers, run: runUsers},
	"user-save":   {summary: "create or edit a user: [-id] -name -email -role [-password]", screen: navigation.RouteUserForm, run: runUserSave},
	"user-delete": {summary: "delete a user: -id", screen: navigation.RouteManageUsers, run: runUserDelete},
	"dashboard":   {summary: "admin overview", screen: navigation.RouteAdmin, run: runDashboard},
	"serve":       {summary: "run the local app shell", run: runServe},
}

// CLI dispatches subcommands against one services container.
type CLI struct {
	container *services.Container
	out       io.Writer
	errOut    io.Writer
	logger    *zap.Logger

	// Serve runs the app shell; replaced in tests.
	Serve func(ctx context.Context, c *services.Container) error
}

func New(c *services.Container, out, errOut io.Writer, logger *zap.Logger) *CLI {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CLI{
		container: c,
		out:       out,
		errOut:    errOut,
		logger:    logger,
		Serve:     serveShell,
	}
}

// Run restores the stored session and executes args[0] with args[1:].
func (c *CLI) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		c.usage()
		return ErrUsage
	}
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(c.errOut, "unknown command %q\n\n", args[0])
		c.usage()
		return ErrUsage
	}

	snap := c.container.Session.Restore(ctx)
	if cmd.screen != "" {
		graph := navigation.Build(false, snap.User)
		if graph.Mode != navigation.ModeAuthenticated {
			return fmt.Errorf("%s: %w", args[0], models.ErrNoSession)
		}
		if !graph.Reachable(cmd.screen) {
			return fmt.Errorf("%s requires the %s screen: %w", args[0], cmd.screen, models.ErrForbidden)
		}
	}
	c.logger.Debug("Running command", zap.String("command", args[0]), zap.String("state", snap.State.String()))
	return cmd.run(ctx, c, args[1:])
}

func (c *CLI) usage() {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(c.errOut, "usage: techblog <command> [flags]")
	tw := tabwriter.NewWriter(c.errOut, 0, 4, 2, ' ', 0)
	for _, name := range names {
		fmt.Fprintf(tw, "  %s\t%s\n", name, commands[name].summary)
	}
	tw.Flush()
}

func (c *CLI) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.errOut)
	return fs
}

func (c *CLI) parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return ErrUsage
	}
	return nil
}

func (c *CLI) table(columns ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	upper := cases.Upper(language.BrazilianPortuguese)
	for i, col := range columns {
		columns[i] = upper.String(col)
	}
	fmt.Fprintln(tw, strings.Join(columns, "\t"))
	return tw
}

// Describe turns an error into the message shown to the user.
func Describe(err error) string {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		return verr.Message
	case errors.Is(err, ErrUsage):
		return "comando inválido"
	case errors.Is(err, models.ErrNoSession):
		return "Nenhuma sessão ativa. Use: techblog login -email -password"
	case errors.As(err, new(*models.AuthError)):
		return "Email ou senha inválidos"
	case errors.Is(err, models.ErrUnauthenticated):
		return "Sessão expirada. Entre novamente."
	case errors.Is(err, models.ErrForbidden):
		return "Acesso negado: " + err.Error()
	case errors.Is(err, models.ErrNotFound):
		return "Não encontrado: " + err.Error()
	case errors.Is(err, models.ErrNetwork):
		return "Não foi possível conectar ao servidor: " + err.Error()
	case errors.Is(err, models.ErrMalformedToken):
		return "O servidor respondeu com um token inválido"
	}
	return err.Error()
}
