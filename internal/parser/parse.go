package parser

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

type Parser struct {
	registry *Registry
}

func New() *Parser {
	return &Parser{registry: DefaultRegistry()}
}

func (p *Parser) RegisterCommand(c CommandDef) {
	p.registry.RegisterCommand(c)
}

func (p *Parser) Commands() []CommandDef {
	return p.registry.Commands()
}

func (p *Parser) Parse(ctx ParseContext, raw string) Intent {
	intent := Intent{
		Raw:        raw,
		Normalised: normaliseInput(raw),
		Kind:       Unknown,
		Confidence: 0,
	}
	if strings.TrimSpace(raw) == "?" {
		intent.Normalised = "help"
	}
	if intent.Normalised == "" {
		intent.Clarify = &ClarifyQuestion{Prompt: "Enter a command. Type help for a list."}
		return intent
	}

	tokens := tokenise(intent.Normalised)
	cmdMatch, alternates := p.registry.matchCommand(tokens)
	if cmdMatch.Canonical == "" || cmdMatch.Score < 0.5 {
		inferred := p.inferFreeTextIntent(ctx, intent.Raw, intent.Normalised)
		if inferred != nil {
			return *inferred
		}
		intent.Clarify = &ClarifyQuestion{
			Prompt: "I couldn't map that to a command. Try who, where, move, work, rehearse, act, upgrade, end or help.",
		}
		return intent
	}

	if len(alternates) > 0 && (cmdMatch.Score-alternates[0].Score) < 0.05 && alternates[0].Score > 0.65 {
		options := []Intent{
			{
				Raw:        raw,
				Normalised: cmdMatch.Canonical,
				Kind:       p.commandKind(cmdMatch.Canonical),
				Verb:       cmdMatch.Canonical,
				Confidence: cmdMatch.Score,
			},
			{
				Raw:        raw,
				Normalised: alternates[0].Canonical,
				Kind:       p.commandKind(alternates[0].Canonical),
				Verb:       alternates[0].Canonical,
				Confidence: alternates[0].Score,
			},
		}
		intent.Clarify = &ClarifyQuestion{
			Prompt:  "Did you mean:",
			Options: options,
		}
		return intent
	}

	intent.Verb = cmdMatch.Canonical
	intent.Kind = p.commandKind(intent.Verb)
	intent.Confidence = clampScore(cmdMatch.Score)

	argsTokens := tokens
	if cmdMatch.Consumed > 0 && len(tokens) >= cmdMatch.Consumed {
		argsTokens = tokens[cmdMatch.Consumed:]
	}

	def, _ := p.registry.command(intent.Verb)
	resolvedArgs, clarify, argScore := p.resolveArgs(ctx, def, argsTokens)
	if clarify != nil {
		intent.Clarify = clarify
		intent.Confidence = 0.45
		return intent
	}
	intent.Args = resolvedArgs
	if len(argsTokens) > 0 {
		intent.Confidence = clampScore((intent.Confidence * 0.75) + (argScore * 0.25))
	}

	if len(intent.Args) < def.MinArgs {
		if options := buildArgOptions(ctx, def.Canonical, intent.Args, 5); len(options) > 0 {
			intent.Clarify = &ClarifyQuestion{
				Prompt:  argPrompt(def.Canonical, intent.Args),
				Options: options,
			}
			intent.Confidence = 0.46
			return intent
		}
		intent.Clarify = &ClarifyQuestion{Prompt: fmt.Sprintf("Usage: %s", def.Usage)}
		intent.Confidence = 0.42
		return intent
	}

	if def.MaxArgs >= 0 && len(intent.Args) > def.MaxArgs {
		intent.Args = append([]string(nil), intent.Args[:def.MaxArgs]...)
		intent.Confidence = clampScore(intent.Confidence - 0.05)
	}

	if intent.Confidence < 0.52 && intent.Clarify == nil {
		intent.Clarify = &ClarifyQuestion{Prompt: "I have low confidence in that parse. Please rephrase or pick a clearer command."}
	}
	return intent
}

func (p *Parser) commandKind(verb string) IntentKind {
	if def, ok := p.registry.command(verb); ok {
		return def.Kind
	}
	return Unknown
}

// resolveArgs maps the words after the verb onto display names. Rooms and
// roles are matched as whole phrases; upgrade takes a currency and a rank in
// either order.
func (p *Parser) resolveArgs(ctx ParseContext, def CommandDef, args []string) ([]string, *ClarifyQuestion, float64) {
	if len(args) == 0 {
		return nil, nil, 0.9
	}

	switch def.Canonical {
	case "move":
		return resolveName(ctx, def.Canonical, args, ctx.Rooms, ctx.Adjacent)
	case "work":
		return resolveName(ctx, def.Canonical, args, ctx.Roles, ctx.Available)
	case "upgrade":
		return resolveUpgrade(args)
	}
	// Remaining verbs take no arguments; extras are dropped by MaxArgs.
	return args, nil, 0.8
}

func resolveName(ctx ParseContext, verb string, args []string, all, boost []string) ([]string, *ClarifyQuestion, float64) {
	if len(args) == 1 && isPronoun(args[0]) {
		if strings.TrimSpace(ctx.LastEntity) == "" {
			return nil, &ClarifyQuestion{Prompt: "What does that refer to?"}, 0.4
		}
		return []string{ctx.LastEntity}, nil, 0.82
	}

	display := displayNames(all)
	attempts := [][]string{args}
	if trimmed := trimFillers(args); len(trimmed) > 0 && len(trimmed) < len(args) {
		attempts = append(attempts, trimmed)
	}

	var lastTry string
	for _, tokens := range attempts {
		lastTry = strings.Join(tokens, " ")
		matches, confidence, tie := bestMatches(lastTry, keys(all), normalisedAll(boost))
		if tie && len(matches) >= 2 {
			options := make([]Intent, 0, 2)
			for idx := 0; idx < 2; idx++ {
				options = append(options, Intent{
					Kind:       Command,
					Verb:       verb,
					Args:       []string{display[matches[idx]]},
					Confidence: confidence - float64(idx)*0.01,
				})
			}
			return nil, &ClarifyQuestion{
				Prompt:  fmt.Sprintf("Which did you mean to %s?", verb),
				Options: options,
			}, 0.52
		}
		if len(matches) == 1 {
			return []string{display[matches[0]]}, nil, confidence
		}
	}
	// Unknown names pass through so the board can reject them with a hint.
	return []string{lastTry}, nil, 0.6
}

func resolveUpgrade(args []string) ([]string, *ClarifyQuestion, float64) {
	var currency, rank string
	score := 0.9
	for _, token := range args {
		if currency == "" {
			if c := mapCurrency(token); c != "" {
				currency = c
				continue
			}
		}
		if rank == "" {
			if n, ok := parseRankToken(token); ok {
				rank = fmt.Sprint(n)
				continue
			}
		}
		if isFiller(token) || token == "rank" {
			continue
		}
		if currency == "" && len(token) >= 3 {
			if m, s, _ := bestMatches(token, []string{"dollars", "credits"}, nil); len(m) > 0 {
				currency = m[0]
				score = minScore(score, s)
				continue
			}
		}
		score -= 0.05
	}
	out := make([]string, 0, 2)
	if currency != "" {
		out = append(out, currency)
	}
	if rank != "" {
		out = append(out, rank)
	}
	return out, nil, clampScore(score)
}

func argPrompt(verb string, have []string) string {
	switch verb {
	case "move":
		return "Move where?"
	case "upgrade":
		if len(have) == 1 && mapCurrency(have[0]) == "" {
			return "Pay with dollars or credits?"
		}
		return "Upgrade to which rank?"
	default:
		return fmt.Sprintf("What should I %s?", verb)
	}
}

func buildArgOptions(ctx ParseContext, verb string, have []string, maxOptions int) []Intent {
	var options []Intent
	switch verb {
	case "move":
		for _, room := range ctx.Adjacent {
			options = append(options, Intent{Kind: Command, Verb: verb, Args: []string{room}, Confidence: 0.88})
			if len(options) >= maxOptions {
				break
			}
		}
	case "upgrade":
		if len(have) == 1 && mapCurrency(have[0]) == "" {
			for _, c := range []string{"dollars", "credits"} {
				options = append(options, Intent{Kind: Command, Verb: verb, Args: []string{c, have[0]}, Confidence: 0.88})
			}
		}
	}
	return options
}

func (p *Parser) inferFreeTextIntent(ctx ParseContext, raw string, normalised string) *Intent {
	n := normalised
	makeIntent := func(verb string, args []string, confidence float64) *Intent {
		return &Intent{
			Raw:        raw,
			Normalised: normalised,
			Kind:       p.commandKind(verb),
			Verb:       verb,
			Args:       args,
			Confidence: clampScore(confidence),
		}
	}

	if containsAnyPhrase(n, "where am i", "look around", "what room", "which room") {
		return makeIntent("where", nil, 0.88)
	}
	if containsAnyPhrase(n, "who am i", "my stats", "how much money", "my rank") {
		return makeIntent("who", nil, 0.88)
	}
	if containsAnyPhrase(n, "end my turn", "end turn", "my turn is over", "im done", "i m done", "pass my turn") {
		return makeIntent("end", nil, 0.86)
	}
	if containsAnyPhrase(n, "what roles", "which roles", "any roles") {
		return makeIntent("work", nil, 0.82)
	}

	tokens := tokenise(n)
	for i, token := range tokens {
		if i+1 >= len(tokens) {
			break
		}
		if token != "go" && token != "walk" && token != "head" && token != "move" {
			continue
		}
		args, clarify, confidence := resolveName(ctx, "move", tokens[i+1:], ctx.Rooms, ctx.Adjacent)
		if clarify != nil {
			in := makeIntent("move", nil, 0.52)
			in.Clarify = clarify
			return in
		}
		return makeIntent("move", args, confidence-0.05)
	}

	if containsWord(n, "rehearse") || containsWord(n, "practice") {
		return makeIntent("rehearse", nil, 0.8)
	}
	if containsWord(n, "act") || containsWord(n, "perform") {
		return makeIntent("act", nil, 0.78)
	}
	return nil
}

// Suggest returns the candidate closest to input within the typo limit, or
// "" when nothing is close enough.
func Suggest(input string, candidates []string) string {
	display := displayNames(candidates)
	matches, _, _ := bestMatches(normaliseInput(input), keys(candidates), nil)
	if len(matches) == 0 {
		return ""
	}
	return display[matches[0]]
}

func displayNames(names []string) map[string]string {
	out := make(map[string]string, len(names))
	for _, name := range names {
		n := normaliseInput(name)
		if n == "" {
			continue
		}
		if _, ok := out[n]; !ok {
			out[n] = name
		}
	}
	return out
}

// keys returns the normalised forms in the order names were given.
func keys(names []string) []string {
	out := make([]string, 0, len(names))
	seen := map[string]bool{}
	for _, name := range names {
		n := normaliseInput(name)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func normalisedAll(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if n := normaliseInput(name); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func bestMatches(token string, all []string, boost []string) ([]string, float64, bool) {
	if len(all) == 0 || token == "" {
		return nil, 0, false
	}
	type scored struct {
		val   string
		score float64
	}
	boosted := make(map[string]bool, len(boost))
	for _, n := range boost {
		boosted[n] = true
	}

	results := make([]scored, 0, len(all))
	for _, cand := range all {
		score := 0.0
		switch {
		case token == cand:
			score = 1.0
		case strings.HasPrefix(cand, token) && len(token) >= 2:
			score = 0.9
		default:
			dist := levenshtein.ComputeDistance(token, cand)
			if dist > levenshteinLimit(len(cand)) {
				continue
			}
			score = 0.72 - (0.08 * float64(dist))
		}
		if boosted[cand] {
			score += 0.08
		}
		results = append(results, scored{val: cand, score: clampScore(score)})
	}
	if len(results) == 0 {
		return nil, 0, false
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].score == results[j].score {
			return results[i].val < results[j].val
		}
		return results[i].score > results[j].score
	})

	best := results[0]
	tie := len(results) > 1 && (best.score-results[1].score) < 0.05 && results[1].score > 0.6
	if tie {
		return []string{best.val, results[1].val}, best.score, true
	}
	return []string{best.val}, best.score, false
}

func containsAnyPhrase(value string, phrases ...string) bool {
	for _, phrase := range phrases {
		if containsPhrase(value, phrase) {
			return true
		}
	}
	return false
}

func containsPhrase(value, phrase string) bool {
	p := normaliseInput(phrase)
	if p == "" {
		return false
	}
	return strings.Contains(" "+value+" ", " "+p+" ")
}

func containsWord(value, word string) bool {
	w := normaliseInput(word)
	if w == "" {
		return false
	}
	return strings.Contains(" "+value+" ", " "+w+" ")
}

func minScore(a, b float64) float64 {
	if b < a {
		return b
	}
	return a
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// IntentToCommandString renders the board command for an intent. Arguments
// keep their display casing; only the verb is normalised.
func IntentToCommandString(intent Intent) string {
	verb := normaliseInput(intent.Verb)
	if verb == "" {
		return ""
	}
	args := make([]string, 0, len(intent.Args))
	for _, arg := range intent.Args {
		if a := strings.Join(strings.Fields(arg), " "); a != "" {
			args = append(args, a)
		}
	}
	if len(args) == 0 {
		return verb
	}
	return verb + " " + strings.Join(args, " ")
}
