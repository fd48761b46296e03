package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/matiasleandrokruk/relaychat/internal/domain/chat"
)

// MaxBodyBytes caps an inbound chat request body.
const MaxBodyBytes = 1 << 20

// ChatRelay runs one exchange from a raw JSON body.
type ChatRelay interface {
	HandleJSON(ctx context.Context, body []byte) chat.Result
}

type ChatHandler struct {
	relay ChatRelay
}

func NewChatHandler(relay ChatRelay) *ChatHandler {
	return &ChatHandler{relay: relay}
}

type chatResponse struct {
	Content string            `json:"content"`
	Role    string            `json:"role"`
	Raw     chat.ProviderMeta `json:"raw"`
}

// Chat handles POST /api/chat.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, chat.MessagesRequiredMessage)
		return
	}

	switch res := h.relay.HandleJSON(r.Context(), body).(type) {
	case chat.Success:
		writeJSON(w, http.StatusOK, chatResponse{Content: res.Content, Role: res.Role, Raw: res.ProviderMeta})
	case *chat.Failure:
		writeJSON(w, res.StatusCode, errorBody{Error: res.Message, Kind: string(res.Kind)})
	default:
		writeError(w, chat.DefaultFailureStatus, chat.GenericFailureMessage)
	}
}
