// Package session implements the bounded, persisted multi-turn history
// used as context for follow-up requests. Each named session is one JSON
// file under the session directory; an unnamed session is ephemeral and
// never touches disk.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"shellsage/internal/logging"
)

// MaxTurns bounds the retained history to MaxTurns user/model pairs.
const MaxTurns = 10

// Role identifies who produced a turn.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Turn is one message in a conversation. Immutable once appended.
type Turn struct {
	Role string
	Text string
}

// turnRecord is the persisted shape: {"role": ..., "parts": [{"text": ...}]}.
type turnRecord struct {
	Role  string       `json:"role"`
	Parts []partRecord `json:"parts"`
}

type partRecord struct {
	Text string `json:"text"`
}

// Store manages persisted sessions under a single directory.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir. The directory is created lazily
// with owner-only permissions on first persist.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// ErrNotFound is returned by Delete for a session that does not exist.
var ErrNotFound = fmt.Errorf("session not found")

// Session owns an ordered sequence of turns, oldest first.
// A Session with an empty name is ephemeral: Append keeps turns in memory
// for the life of the process but never persists them.
type Session struct {
	name  string
	store *Store
	turns []Turn
}

// Open loads the named session. A missing, empty, or corrupt backing file
// yields an empty session, never an error. An empty name yields an
// ephemeral session.
func (s *Store) Open(name string) *Session {
	sess := &Session{name: name, store: s}
	if name == "" {
		return sess
	}

	data, err := os.ReadFile(s.path(name))
	if err != nil {
		return sess
	}

	var records []turnRecord
	if err := json.Unmarshal(data, &records); err != nil {
		logging.SessionWarn("session %q: corrupt history, starting empty: %v", name, err)
		return sess
	}

	for _, rec := range records {
		var text strings.Builder
		for _, p := range rec.Parts {
			text.WriteString(p.Text)
		}
		sess.turns = append(sess.turns, Turn{Role: rec.Role, Text: text.String()})
	}
	logging.SessionDebug("session %q: loaded %d turns", name, len(sess.turns))
	return sess
}

// Delete removes the backing file for a named session.
func (s *Store) Delete(name string) error {
	if name == "" {
		return ErrNotFound
	}
	if err := os.Remove(s.path(name)); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete session %q: %w", name, err)
	}
	logging.Session("session %q deleted", name)
	return nil
}

// List enumerates all persisted session names, sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)
	return names, nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// Name returns the session name; empty for ephemeral sessions.
func (sess *Session) Name() string {
	return sess.name
}

// Ephemeral reports whether this session has no backing store.
func (sess *Session) Ephemeral() bool {
	return sess.name == ""
}

// Len returns the number of stored turns.
func (sess *Session) Len() int {
	return len(sess.turns)
}

// Turns returns a copy of the ordered history for request construction.
func (sess *Session) Turns() []Turn {
	out := make([]Turn, len(sess.turns))
	copy(out, sess.turns)
	return out
}

// Append records a user/model exchange, trims to the newest MaxTurns pairs,
// and persists synchronously. For ephemeral sessions this is a no-op.
func (sess *Session) Append(userText, modelText string) {
	if sess.Ephemeral() {
		return
	}
	sess.turns = append(sess.turns,
		Turn{Role: RoleUser, Text: userText},
		Turn{Role: RoleModel, Text: modelText},
	)
	sess.trim()
	sess.persist()
}

// AppendTurn records a single turn. Used for command-output feedback where
// the exchange is synthesized rather than generated.
func (sess *Session) AppendTurn(turn Turn) {
	if sess.Ephemeral() {
		return
	}
	sess.turns = append(sess.turns, turn)
	sess.trim()
	sess.persist()
}

// trim drops oldest pairs until at most 2*MaxTurns entries remain.
func (sess *Session) trim() {
	for len(sess.turns) > 2*MaxTurns {
		sess.turns = sess.turns[2:]
	}
}

// persist writes the history with owner-only permissions. Write failures
// are soft: the in-memory session stays authoritative for this process.
func (sess *Session) persist() {
	if err := os.MkdirAll(sess.store.dir, 0700); err != nil {
		logging.SessionWarn("session %q: cannot create session dir: %v", sess.name, err)
		return
	}

	records := make([]turnRecord, len(sess.turns))
	for i, t := range sess.turns {
		records[i] = turnRecord{Role: t.Role, Parts: []partRecord{{Text: t.Text}}}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		logging.SessionWarn("session %q: marshal failed: %v", sess.name, err)
		return
	}

	path := sess.store.path(sess.name)
	if err := os.WriteFile(path, data, 0600); err != nil {
		logging.SessionWarn("session %q: persist failed: %v", sess.name, err)
		return
	}
	logging.SessionDebug("session %q: persisted %d turns", sess.name, len(sess.turns))
}
