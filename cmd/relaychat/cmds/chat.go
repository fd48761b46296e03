package cmds

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/matiasleandrokruk/relaychat/internal/cli/render"
	"github.com/matiasleandrokruk/relaychat/internal/domain/chat"
	"github.com/matiasleandrokruk/relaychat/internal/domain/orchestrator"
	"github.com/matiasleandrokruk/relaychat/internal/domain/relay"
	"github.com/matiasleandrokruk/relaychat/internal/domain/settings"
	"github.com/matiasleandrokruk/relaychat/internal/infra/config"
	"github.com/matiasleandrokruk/relaychat/internal/infra/eventbus"
	"github.com/matiasleandrokruk/relaychat/internal/infra/relayclient"
	"github.com/matiasleandrokruk/relaychat/pkg/optional"
)

const chatHelp = `Commands:
  /temp [value]  show or set the temperature (0..1)
  /history       print the conversation so far
  /clear         forget the conversation
  /help          show this help
  /quit          leave`

func newChatCommand(st *rootState) *cobra.Command {
	var (
		message  string
		model    string
		relayURL string
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Open an interactive conversation (or send one message with -m)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := st.cfg
			if relayURL != "" {
				cfg.RelayURL = relayURL
			}

			state, err := openLocalState(cfg.DBPath)
			if err != nil {
				return err
			}
			defer state.Close() //nolint:errcheck

			bus := eventbus.New()
			logged := logTransitions(bus.Subscribe(orchestrator.TopicStateChanged))
			defer func() {
				bus.Close()
				<-logged
			}()

			opts := []orchestrator.Option{orchestrator.WithEvents(bus)}
			if model != "" {
				opts = append(opts, orchestrator.WithModel(model))
			}
			o := orchestrator.New(state.conversation, state.settings, newRelay(cfg), opts...)
			s := &chatSession{
				orch:     o,
				settings: state.settings,
				out:      render.New(cmd.OutOrStdout()),
				prompt:   cmd.OutOrStdout(),
			}

			if message != "" {
				return s.sendOnce(cmd.Context(), message)
			}
			return s.repl(cmd.Context(), cmd.InOrStdin())
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "send a single message and exit")
	cmd.Flags().StringVar(&model, "model", "", "model to request (defaults to the relay's)")
	cmd.Flags().StringVar(&relayURL, "relay", "", "relay base URL (overrides RELAYCHAT_URL)")
	return cmd
}

// newRelay returns an HTTP client for a remote relay, or an in-process gateway
// when no relay URL is configured.
func newRelay(cfg config.Config) orchestrator.Relay {
	if cfg.RelayURL != "" {
		log.Debug().Str("relay", cfg.RelayURL).Msg("using remote relay")
		return relayclient.New(cfg.RelayURL, cfg.UpstreamTimeout+5*time.Second)
	}
	return orchestrator.RelayFunc(relay.NewGateway(newProvider(cfg)).Handle)
}

// logTransitions logs orchestrator state changes until events is closed.
func logTransitions(events <-chan eventbus.Event) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for evt := range events {
			change, ok := evt.Payload.(orchestrator.StateChange)
			if !ok {
				continue
			}
			log.Debug().
				Str("state", string(change.State)).
				Str("error", change.Error).
				Int("messages", change.Messages).
				Msg("chat state changed")
		}
	}()
	return done
}

type chatSession struct {
	orch     *orchestrator.Orchestrator
	settings *settings.Store
	out      *render.Renderer
	prompt   io.Writer
}

func (s *chatSession) sendOnce(ctx context.Context, text string) error {
	res, err := s.orch.Submit(ctx, text)
	if err != nil {
		return err
	}
	if f, ok := res.(*chat.Failure); ok {
		return f
	}
	s.showLastReply()
	return nil
}

func (s *chatSession) repl(ctx context.Context, in io.Reader) error {
	if msgs := s.orch.Snapshot().Messages; len(msgs) > 0 {
		s.out.Info("Resuming conversation (%d messages). /help for commands.", len(msgs))
	} else {
		s.out.Info("New conversation. /help for commands.")
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for {
		fmt.Fprint(s.prompt, "> ") //nolint:errcheck
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()

		if strings.HasPrefix(strings.TrimSpace(line), "/") {
			if quit := s.command(strings.Fields(strings.TrimSpace(line))); quit {
				return nil
			}
			continue
		}

		s.orch.SetInput(line)
		if !s.orch.CanSubmit() {
			continue
		}
		res, err := s.orch.SubmitInput(ctx)
		if err != nil {
			s.out.Error(err.Error())
			continue
		}
		switch r := res.(type) {
		case chat.Success:
			s.showLastReply()
		case *chat.Failure:
			s.out.Error(r.Message)
		}
	}
	return scanner.Err()
}

// command runs a slash command and reports whether the session should end.
func (s *chatSession) command(fields []string) bool {
	switch fields[0] {
	case "/quit", "/exit":
		return true
	case "/clear":
		s.orch.Clear()
		s.out.Info("Conversation cleared.")
	case "/history":
		s.out.Conversation(s.orch.Snapshot().Messages)
	case "/temp":
		s.temperature(fields[1:])
	case "/help":
		s.out.Info(chatHelp)
	default:
		s.out.Error(fmt.Sprintf("unknown command %s (try /help)", fields[0]))
	}
	return false
}

func (s *chatSession) temperature(args []string) {
	if len(args) == 0 {
		s.out.Info("temperature: %.2f", s.settings.Get().Temperature)
		return
	}
	v, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		s.out.Error(fmt.Sprintf("invalid temperature %q", args[0]))
		return
	}
	updated, err := s.settings.Update(settings.Patch{Temperature: optional.Some(v)})
	if err != nil {
		s.out.Error(err.Error())
		return
	}
	s.out.Info("temperature set to %.2f", updated.Temperature)
}

func (s *chatSession) showLastReply() {
	msgs := s.orch.Snapshot().Messages
	if len(msgs) == 0 {
		return
	}
	if last := msgs[len(msgs)-1]; last.Role == chat.RoleAssistant {
		s.out.Message(last)
	}
}
