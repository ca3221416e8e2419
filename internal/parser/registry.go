package parser

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

type commandPhrase struct {
	canonical string
	alias     string
	tokens    []string
}

type Registry struct {
	commands map[string]CommandDef
	phrases  []commandPhrase
}

func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]CommandDef),
	}
}

func (r *Registry) RegisterCommand(c CommandDef) {
	c.Canonical = normaliseInput(c.Canonical)
	if c.Canonical == "" {
		return
	}
	r.commands[c.Canonical] = c

	r.phrases = append(r.phrases, commandPhrase{
		canonical: c.Canonical,
		alias:     c.Canonical,
		tokens:    tokenise(c.Canonical),
	})
	for _, a := range c.Aliases {
		n := normaliseInput(a)
		if n == "" {
			continue
		}
		r.phrases = append(r.phrases, commandPhrase{
			canonical: c.Canonical,
			alias:     n,
			tokens:    tokenise(n),
		})
	}
}

func (r *Registry) command(canonical string) (CommandDef, bool) {
	canonical = normaliseInput(canonical)
	cmd, ok := r.commands[canonical]
	return cmd, ok
}

type commandCandidate struct {
	Canonical string
	Consumed  int
	Score     float64
}

func (r *Registry) matchCommand(tokens []string) (commandCandidate, []commandCandidate) {
	if len(tokens) == 0 {
		return commandCandidate{}, nil
	}
	in := strings.Join(tokens, " ")
	cands := make([]commandCandidate, 0, len(r.phrases))
	for _, phrase := range r.phrases {
		if len(phrase.tokens) == 0 {
			continue
		}
		consumed := min(len(tokens), len(phrase.tokens))
		prefix := strings.Join(tokens[:consumed], " ")

		if consumed == len(phrase.tokens) && prefix == phrase.alias {
			score := 1.0
			if phrase.alias != phrase.canonical {
				score = 0.97
			}
			cands = append(cands, commandCandidate{
				Canonical: phrase.canonical,
				Consumed:  consumed,
				Score:     score,
			})
			continue
		}

		if len(phrase.tokens) == 1 && strings.HasPrefix(phrase.alias, tokens[0]) && len(tokens[0]) >= 2 {
			cands = append(cands, commandCandidate{
				Canonical: phrase.canonical,
				Consumed:  1,
				Score:     0.9,
			})
			continue
		}

		// Fuzzy: only when there was no exact/prefix hit for this phrase.
		cut := consumed
		compare := prefix
		if len(phrase.tokens) > 1 && len(tokens) >= len(phrase.tokens) {
			cut = len(phrase.tokens)
			compare = strings.Join(tokens[:cut], " ")
		}
		if cut == 0 || compare == "" {
			continue
		}
		if len(compare) < 3 {
			continue
		}
		dist := levenshtein.ComputeDistance(compare, phrase.alias)
		limit := levenshteinLimit(len(phrase.alias))
		if dist > limit {
			continue
		}
		score := 0.72 - (0.08 * float64(dist))
		if strings.Contains(in, phrase.alias) {
			score += 0.04
		}
		if phrase.alias != phrase.canonical {
			score += 0.03
		}
		cands = append(cands, commandCandidate{
			Canonical: phrase.canonical,
			Consumed:  cut,
			Score:     score,
		})
	}

	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].Score == cands[j].Score {
			if cands[i].Consumed == cands[j].Consumed {
				return cands[i].Canonical < cands[j].Canonical
			}
			return cands[i].Consumed > cands[j].Consumed
		}
		return cands[i].Score > cands[j].Score
	})

	if len(cands) == 0 {
		return commandCandidate{}, nil
	}
	best := cands[0]
	alts := make([]commandCandidate, 0, 4)
	seen := map[string]bool{best.Canonical: true}
	for _, c := range cands[1:] {
		if seen[c.Canonical] {
			continue
		}
		seen[c.Canonical] = true
		alts = append(alts, c)
		if len(alts) >= 4 {
			break
		}
	}
	return best, alts
}

func levenshteinLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}

// Commands lists registered commands in registration order.
func (r *Registry) Commands() []CommandDef {
	out := make([]CommandDef, 0, len(r.commands))
	seen := map[string]bool{}
	for _, phrase := range r.phrases {
		if seen[phrase.canonical] {
			continue
		}
		seen[phrase.canonical] = true
		out = append(out, r.commands[phrase.canonical])
	}
	return out
}

func DefaultRegistry() *Registry {
	r := NewRegistry()
	commands := []CommandDef{
		{Canonical: "who", Aliases: []string{"whoami", "who am i", "me", "status", "stats"}, Kind: Query, Usage: "who - show your rank, money, credits and role"},
		{Canonical: "where", Aliases: []string{"look", "l", "where am i", "look around"}, Kind: Query, Usage: "where - describe your room and its exits"},
		{Canonical: "move", Aliases: []string{"go", "walk", "head", "travel", "go to", "walk to"}, MinArgs: 1, MaxArgs: 6, Kind: Command, Usage: "move <room> - walk to an adjacent room"},
		{Canonical: "work", Aliases: []string{"take", "take role", "play", "cast", "roles here"}, MinArgs: 0, MaxArgs: 8, Kind: Command, Usage: "work [role] - list roles here or take one"},
		{Canonical: "act", Aliases: []string{"perform", "shoot", "film"}, Kind: Command, Usage: "act - attempt a shot of your scene"},
		{Canonical: "rehearse", Aliases: []string{"practice", "practise", "rehearsal"}, Kind: Command, Usage: "rehearse - add one to future act rolls"},
		{Canonical: "upgrade", Aliases: []string{"buy rank", "rank up", "promote", "buy"}, MinArgs: 2, MaxArgs: 2, Kind: Command, Usage: "upgrade <dollars|credits> <rank> - buy a rank at the casting office"},
		{Canonical: "end", Aliases: []string{"pass", "done", "end turn", "finish"}, Kind: Command, Usage: "end - finish your turn"},

		// Console commands handled outside the board.
		{Canonical: "help", Aliases: []string{"h", "commands"}, Kind: Meta, Usage: "help - list commands"},
		{Canonical: "score", Aliases: []string{"scores", "standings", "leaderboard"}, Kind: Meta, Usage: "score - show everyone's score"},
		{Canonical: "players", Aliases: []string{"seats", "queue", "turn order"}, Kind: Meta, Usage: "players - show the turn order"},
		{Canonical: "roles", Aliases: []string{"list roles", "parts"}, Kind: Meta, Usage: "roles - list roles you can take here"},
		{Canonical: "quit", Aliases: []string{"exit", "q", "bye"}, Kind: Meta, Usage: "quit - leave the game"},
	}
	for _, cmd := range commands {
		r.RegisterCommand(cmd)
	}
	return r
}
