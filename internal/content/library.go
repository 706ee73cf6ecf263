package content

import (
	"math/rand"
	"strings"

	"soundclash/internal/domain"
)

// Library is the sound and prompt catalog. It is immutable after
// construction and safe for concurrent reads; sessions call it outside
// their room lock.
type Library struct {
	sounds  []Sound
	prompts []PromptTemplate
	soundID map[string]Sound
}

// NewLibrary builds a library from the built-in catalogs
func NewLibrary() *Library {
	return newLibrary(Sounds, Prompts)
}

func newLibrary(sounds []Sound, prompts []PromptTemplate) *Library {
	byID := make(map[string]Sound, len(sounds))
	for _, s := range sounds {
		byID[s.ID] = s
	}
	return &Library{sounds: sounds, prompts: prompts, soundID: byID}
}

// HasSound reports whether a sound id exists in the catalog
func (l *Library) HasSound(id string) bool {
	_, ok := l.soundID[id]
	return ok
}

// RandomSounds returns n distinct random sound ids, filtered by the
// room's explicit-content setting.
func (l *Library) RandomSounds(n int, allowExplicit bool) []string {
	pool := make([]string, 0, len(l.sounds))
	for _, s := range l.sounds {
		if s.Explicit && !allowExplicit {
			continue
		}
		pool = append(pool, s.ID)
	}

	rand.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	if n > len(pool) {
		n = len(pool)
	}
	return pool[:n]
}

// RandomPrompts returns up to n candidate prompts whose ids are not in
// excludeIDs, filtered by the explicit-content setting. Returned
// prompts still carry their raw template text.
func (l *Library) RandomPrompts(n int, excludeIDs []string, allowExplicit bool) []domain.Prompt {
	excluded := make(map[string]bool, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = true
	}

	pool := make([]PromptTemplate, 0, len(l.prompts))
	for _, p := range l.prompts {
		if excluded[p.ID] {
			continue
		}
		if p.Explicit && !allowExplicit {
			continue
		}
		pool = append(pool, p)
	}

	rand.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	if n > len(pool) {
		n = len(pool)
	}

	out := make([]domain.Prompt, n)
	for i := 0; i < n; i++ {
		out[i] = domain.Prompt{ID: pool[i].ID, Text: pool[i].Text}
	}
	return out
}

// BindPlayerNames replaces {player} placeholders with player names.
// Assignment is deterministic in (names, seed): occurrence i receives
// names[(seed+i) mod len], so every client renders the same text.
func BindPlayerNames(text string, names []string, seed uint32) string {
	if len(names) == 0 {
		return text
	}

	var b strings.Builder
	i := 0
	for {
		idx := strings.Index(text, "{player}")
		if idx < 0 {
			b.WriteString(text)
			return b.String()
		}
		b.WriteString(text[:idx])
		b.WriteString(names[(int(seed)+i)%len(names)])
		text = text[idx+len("{player}"):]
		i++
	}
}
