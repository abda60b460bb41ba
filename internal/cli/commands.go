package cli

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/FACorreiaa/techblog/internal/app/domain/auth"
	"github.com/FACorreiaa/techblog/internal/app/domain/navigation"
	"github.com/FACorreiaa/techblog/internal/app/domain/posts"
	"github.com/FACorreiaa/techblog/internal/app/domain/token"
	"github.com/FACorreiaa/techblog/internal/app/domain/user"
	"github.com/FACorreiaa/techblog/internal/app/models"
	"github.com/FACorreiaa/techblog/internal/app/services"
	"github.com/FACorreiaa/techblog/internal/server"
)

const dateLayout = "02/01/2006"

func runLogin(ctx context.Context, c *CLI, args []string) error {
	fs := c.flags("login")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := c.parse(fs, args); err != nil {
		return err
	}
	u, err := c.container.Session.SignIn(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Signed in as %s (%s)\n", u.Email, u.Role.Label())
	return nil
}

func runLogout(ctx context.Context, c *CLI, _ []string) error {
	c.container.Session.SignOut(ctx)
	fmt.Fprintln(c.out, "Signed out")
	return nil
}

func runWhoami(_ context.Context, c *CLI, _ []string) error {
	snap := c.container.Session.Snapshot()
	if snap.State != auth.StateAuthenticated {
		fmt.Fprintln(c.out, "Not signed in")
		return nil
	}
	u := snap.User
	fmt.Fprintf(c.out, "%s  %s <%s>\n", u.Initials(), u.Name, u.Email)
	fmt.Fprintf(c.out, "id:   %s\n", u.ID)
	fmt.Fprintf(c.out, "role: %s\n", u.Role.Label())

	claims, err := token.Decode(c.container.Session.Token())
	if err != nil {
		return nil
	}
	if exp := claims.ExpiresAt(); !exp.IsZero() {
		marker := ""
		if claims.Expired(time.Now()) {
			marker = " (expired)"
		}
		fmt.Fprintf(c.out, "expires: %s%s\n", exp.Local().Format(time.RFC3339), marker)
	}
	return nil
}

func runRoutes(_ context.Context, c *CLI, _ []string) error {
	snap := c.container.Session.Snapshot()
	graph := navigation.Build(snap.Initializing(), snap.User)
	fmt.Fprintf(c.out, "mode: %s\n", graph.Mode)
	if initial, ok := graph.Initial(); ok {
		fmt.Fprintf(c.out, "initial: %s\n", initial)
	}
	tw := c.table("route", "title", "tab")
	for _, r := range graph.Routes() {
		s, _ := graph.Screen(r)
		tab := ""
		if s.Tab {
			tab = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Route, s.Title, tab)
	}
	return tw.Flush()
}

func runFeed(ctx context.Context, c *CLI, args []string) error {
	fs := c.flags("feed")
	page := fs.Int("page", 1, "page to load")
	query := fs.String("q", "", "filter titles")
	if err := c.parse(fs, args); err != nil {
		return err
	}

	feed := posts.NewFeed(c.container.Posts, c.logger.Named("feed"))
	defer feed.Close()
	if err := feed.LoadPage(ctx, max(*page, 1)); err != nil {
		return err
	}
	feed.SetQuery(*query)

	list := feed.Posts()
	if len(list) == 0 {
		fmt.Fprintln(c.out, "Nenhuma postagem encontrada")
		return nil
	}
	tw := c.table("id", "título", "autor", "data")
	for _, p := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID, p.Title, p.Author, formatDate(p.CreatedAt))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if feed.HasMore() {
		fmt.Fprintf(c.out, "more: techblog feed -page %d\n", feed.Page()+1)
	}
	return nil
}

func runPost(ctx context.Context, c *CLI, args []string) error {
	fs := c.flags("post")
	id := fs.String("id", "", "post id")
	if err := c.parse(fs, args); err != nil {
		return err
	}
	if *id == "" {
		return &models.ValidationError{Field: "id", Message: "-id is required"}
	}
	p, err := c.container.Posts.Get(ctx, *id)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, p.Title)
	fmt.Fprintf(c.out, "%s · %s\n\n", p.Author, formatDate(p.CreatedAt))
	fmt.Fprintln(c.out, p.Body())
	return nil
}

func runPostSave(ctx context.Context, c *CLI, args []string) error {
	fs := c.flags("post-save")
	id := fs.String("id", "", "post id to edit; empty creates a post")
	title := fs.String("title", "", "post title")
	content := fs.String("content", "", "post content")
	if err := c.parse(fs, args); err != nil {
		return err
	}
	author := c.container.Session.Snapshot().User
	p, err := c.container.Posts.Save(ctx, *id, posts.Form{Title: *title, Content: *content}, author)
	if err != nil {
		return err
	}
	if *id == "" {
		fmt.Fprintf(c.out, "Postagem criada! (%s)\n", p.ID)
	} else {
		fmt.Fprintf(c.out, "Postagem atualizada! (%s)\n", p.ID)
	}
	return nil
}

func runPostDelete(ctx context.Context, c *CLI, args []string) error {
	fs := c.flags("post-delete")
	id := fs.String("id", "", "post id")
	if err := c.parse(fs, args); err != nil {
		return err
	}
	if *id == "" {
		return &models.ValidationError{Field: "id", Message: "-id is required"}
	}
	if err := c.container.Posts.Delete(ctx, *id); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Postagem %s excluída\n", *id)
	return nil
}

func runUsers(ctx context.Context, c *CLI, args []string) error {
	fs := c.flags("users")
	role := fs.String("role", string(user.FilterAll), "TODOS, PROFESSOR or STUDENT")
	if err := c.parse(fs, args); err != nil {
		return err
	}
	m := user.NewManager(c.container.Users, c.logger.Named("manage-users"))
	m.SetFilter(user.ParseFilter(*role))
	if err := m.Load(ctx); err != nil {
		return err
	}
	return c.printUsers(m.Users())
}

func (c *CLI) printUsers(list []models.User) error {
	if len(list) == 0 {
		fmt.Fprintln(c.out, "Nenhum usuário encontrado")
		return nil
	}
	tw := c.table("id", "nome", "email", "cargo")
	for _, u := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.Role.Label())
	}
	return tw.Flush()
}

func runUserSave(ctx context.Context, c *CLI, args []string) error {
	fs := c.flags("user-save")
	id := fs.String("id", "", "user id to edit; empty creates a user")
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "email")
	role := fs.String("role", string(models.RoleStudent), "PROFESSOR or STUDENT")
	password := fs.String("password", "", "password; required when creating")
	if err := c.parse(fs, args); err != nil {
		return err
	}
	form := user.Form{Name: *name, Email: *email, Role: models.Role(*role), Password: *password}
	u, err := user.Save(ctx, c.container.Users, *id, form)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Usuário salvo: %s <%s> (%s)\n", u.Name, u.Email, u.ID)
	return nil
}

func runUserDelete(ctx context.Context, c *CLI, args []string) error {
	fs := c.flags("user-delete")
	id := fs.String("id", "", "user id")
	if err := c.parse(fs, args); err != nil {
		return err
	}
	if *id == "" {
		return &models.ValidationError{Field: "id", Message: "-id is required"}
	}
	m := user.NewManager(c.container.Users, c.logger.Named("manage-users"))
	if err := m.Delete(ctx, *id); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Usuário %s excluído\n", *id)
	return c.printUsers(m.Users())
}

func runDashboard(ctx context.Context, c *CLI, _ []string) error {
	o, err := c.container.Stats.Overview(ctx)
	if err != nil {
		return err
	}
	tw := c.table("postagens", "usuários", "professores", "estudantes")
	fmt.Fprintf(tw, "%d\t%d\t%d\t%d\n", o.Posts, o.Users, o.Instructors, o.Students)
	return tw.Flush()
}

func runServe(ctx context.Context, c *CLI, _ []string) error {
	return c.Serve(ctx, c.container)
}

func serveShell(ctx context.Context, c *services.Container) error {
	logger := c.Logger.Named("shell")
	if pprofSrv := server.StartPprofServer(c.Config.Observability.PprofAddr, logger); pprofSrv != nil {
		defer func() {
			if err := pprofSrv.Close(); err != nil {
				logger.Warn("Failed to close pprof server", zap.Error(err))
			}
		}()
	}
	srv := server.New(c, logger)
	defer srv.Close()
	return srv.Run(ctx)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(dateLayout)
}
