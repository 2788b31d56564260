package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kallinyester/jato/internal/api"
	"github.com/kallinyester/jato/internal/board"
	"github.com/kallinyester/jato/internal/config"
	"github.com/kallinyester/jato/internal/logger"
	"github.com/kallinyester/jato/internal/model"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// runtime bundles what a command needs to reach the backend
type runtime struct {
	cfg    *config.Config
	client *api.Client
}

func newRuntime() *runtime {
	cfg := appConfig
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &runtime{
		cfg:    cfg,
		client: api.NewClient(cfg.APIURL, api.WithLogger(logger.Named("api"))),
	}
}

// session loads the stored login. A session saved for another backend URL is ignored.
func (r *runtime) session() (*config.Session, error) {
	s, err := config.LoadSession()
	if err != nil {
		return nil, err
	}
	if s.APIURL != "" && s.APIURL != r.client.BaseURL() {
		logger.Warn("Stored session belongs to another backend",
			logger.F("session_url", s.APIURL),
			logger.F("api_url", r.client.BaseURL()))
		return nil, config.ErrNotLoggedIn
	}
	return s, nil
}

// authed returns the client bound to the stored session token
func (r *runtime) authed() (*api.Authed, error) {
	s, err := r.session()
	if err != nil {
		return nil, err
	}
	return r.client.WithToken(s.Token), nil
}

// controller builds a board configured from the user's settings
func (r *runtime) controller(opts ...board.Option) *board.Controller {
	base := []board.Option{
		board.WithNotifyTTL(r.cfg.NotifyTTL),
		board.WithNotifyLimit(r.cfg.NotifyLimit),
		board.WithDeadlineWindow(r.cfg.DeadlineWindowDays),
		board.WithLogger(logger.Named("board")),
	}
	return board.New(append(base, opts...)...)
}

// remoteBoard builds a board backed by the session and loads it from the backend
func (r *runtime) remoteBoard(cmd *cobra.Command, opts ...board.Option) (*board.Controller, error) {
	authed, err := r.authed()
	if err != nil {
		return nil, err
	}
	ctrl := r.controller(append([]board.Option{board.WithBackend(authed)}, opts...)...)
	if err := ctrl.Refresh(cmd.Context()); err != nil {
		ctrl.Close()
		return nil, err
	}
	return ctrl, nil
}

// printNotifications writes the board's notifications oldest first
func printNotifications(w io.Writer, ctrl *board.Controller) {
	notes := ctrl.Notifications()
	for i := len(notes) - 1; i >= 0; i-- {
		n := notes[i]
		icon := "ℹ️ "
		switch n.Type {
		case model.NotifySuccess:
			icon = "✅"
		case model.NotifyWarning:
			icon = "⚠️ "
		case model.NotifyError:
			icon = "❌"
		}
		fmt.Fprintf(w, "%s %s\n", icon, n.Message)
	}
}

// prompter reads answers from the command's input
type prompter struct {
	in  io.Reader
	out io.Writer
	r   *bufio.Reader
}

func newPrompter(cmd *cobra.Command) *prompter {
	return &prompter{in: cmd.InOrStdin(), out: cmd.OutOrStdout(), r: bufio.NewReader(cmd.InOrStdin())}
}

func (p *prompter) line(label string) (string, error) {
	fmt.Fprint(p.out, label)
	s, err := p.r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && s != "") {
		return "", err
	}
	return strings.TrimSpace(s), nil
}

// secret reads without echo when the input is a terminal
func (p *prompter) secret(label string) (string, error) {
	if f, ok := p.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(p.out, label)
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(p.out)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	return p.line(label)
}

// confirm asks a yes/no question; anything but y/yes is no
func (p *prompter) confirm(question string) bool {
	answer, err := p.line(question + " [y/N]: ")
	if err != nil {
		return false
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes"
}
