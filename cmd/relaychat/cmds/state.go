package cmds

import (
	"database/sql"
	"fmt"

	"github.com/matiasleandrokruk/relaychat/internal/domain/conversation"
	"github.com/matiasleandrokruk/relaychat/internal/domain/settings"
	"github.com/matiasleandrokruk/relaychat/internal/infra/kv"
	"github.com/matiasleandrokruk/relaychat/internal/infra/sqlite"
)

// localState is the client's durable conversation and settings.
type localState struct {
	db           *sql.DB
	settings     *settings.Store
	conversation *conversation.Store
}

func openLocalState(path string) (*localState, error) {
	db, err := sqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open state %s: %w", path, err)
	}
	storage := kv.NewSQLite(db)

	st := &localState{
		db:           db,
		settings:     settings.NewStore(storage),
		conversation: conversation.NewStore(storage),
	}
	st.settings.Load()
	st.conversation.Load()
	return st, nil
}

func (s *localState) Close() error { return s.db.Close() }
