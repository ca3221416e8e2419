package parser

type IntentKind int

const (
	Command IntentKind = iota
	Query
	Meta
	Unknown
)

type Intent struct {
	Raw        string
	Normalised string
	Kind       IntentKind
	Verb       string
	Args       []string
	Confidence float64
	Clarify    *ClarifyQuestion
}

type ClarifyQuestion struct {
	Prompt  string
	Options []Intent
}

// ParseContext carries the names the active player can refer to. Adjacent
// and Available are subsets of Rooms and Roles that win close matches.
type ParseContext struct {
	Rooms      []string
	Adjacent   []string
	Roles      []string
	Available  []string
	LastEntity string
}

type CommandDef struct {
	Canonical string
	Aliases   []string
	MinArgs   int
	MaxArgs   int
	Kind      IntentKind
	Usage     string
}
