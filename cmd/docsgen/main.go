package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/appengine-ltd/deadwood/internal/content"
	"github.com/appengine-ltd/deadwood/internal/game"
	"github.com/appengine-ltd/deadwood/internal/parser"
)

type docFile struct {
	Name    string
	Title   string
	Content string
}

func main() {
	set, err := content.Default()
	if err != nil {
		fatal(err)
	}
	lot, err := set.LoadLot()
	if err != nil {
		fatal(err)
	}

	root := filepath.Join("docs", "reference")
	if err := os.MkdirAll(root, 0o755); err != nil {
		fatal(err)
	}

	files := []docFile{
		generateCommandsDoc(parser.DefaultRegistry().Commands()),
		generateLotDoc(lot),
		generateCardsDoc(set.Scenes),
		generateExtrasDoc(set.Extras),
		generateUpgradesDoc(),
	}
	for _, f := range files {
		path := filepath.Join(root, f.Name)
		if err := os.WriteFile(path, []byte(f.Content), 0o644); err != nil {
			fatal(err)
		}
		fmt.Printf("wrote %s\n", path)
	}

	index := generateIndex(files)
	indexPath := filepath.Join(root, "README.md")
	if err := os.WriteFile(indexPath, []byte(index), 0o644); err != nil {
		fatal(err)
	}
	fmt.Printf("wrote %s\n", indexPath)
}

func generateIndex(files []docFile) string {
	var b strings.Builder
	b.WriteString("# Reference\n\n")
	b.WriteString("Generated from the embedded content and command registry using `go run ./cmd/docsgen`.\n\n")
	for _, f := range files {
		b.WriteString(fmt.Sprintf("- [%s](./%s)\n", f.Title, f.Name))
	}
	return b.String()
}

func generateCommandsDoc(defs []parser.CommandDef) docFile {
	var b strings.Builder
	b.WriteString("# Commands\n\n")
	b.WriteString("Source: `internal/parser/registry.go` (`DefaultRegistry`).\n\n")
	b.WriteString("| Command | Kind | Aliases | Usage |\n")
	b.WriteString("| --- | --- | --- | --- |\n")
	for _, d := range defs {
		b.WriteString("| ")
		b.WriteString(escape(d.Canonical))
		b.WriteString(" | ")
		b.WriteString(escape(kindName(d.Kind)))
		b.WriteString(" | ")
		b.WriteString(escape(strings.Join(d.Aliases, ", ")))
		b.WriteString(" | ")
		b.WriteString(escape(d.Usage))
		b.WriteString(" |\n")
	}
	return docFile{Name: "commands.md", Title: "Commands", Content: b.String()}
}

func generateLotDoc(lot *game.Lot) docFile {
	rooms := lot.Rooms()
	sort.Slice(rooms, func(i, j int) bool {
		return rooms[i].Name() < rooms[j].Name()
	})

	var b strings.Builder
	b.WriteString("# Lot\n\n")
	b.WriteString("Source: `internal/content/data/board.json`.\n\n")
	b.WriteString(fmt.Sprintf("Start: **%s**. Upgrades: **%s**. Scene rooms: **%d**.\n\n", lot.Start().Name(), lot.Office().Name(), len(lot.SceneRooms())))
	b.WriteString("| Room | Hosts Scenes | Connects To |\n")
	b.WriteString("| --- | --- | --- |\n")
	for _, r := range rooms {
		b.WriteString("| ")
		b.WriteString(escape(r.Name()))
		b.WriteString(" | ")
		b.WriteString(yesNo(r.Kind() == game.RoomScene))
		b.WriteString(" | ")
		b.WriteString(escape(strings.Join(r.AdjacentNames(), ", ")))
		b.WriteString(" |\n")
	}
	return docFile{Name: "lot.md", Title: "Lot", Content: b.String()}
}

func generateCardsDoc(scenes []*game.Scene) docFile {
	items := append([]*game.Scene(nil), scenes...)
	sort.Slice(items, func(i, j int) bool {
		if items[i].Budget != items[j].Budget {
			return items[i].Budget < items[j].Budget
		}
		return items[i].Name < items[j].Name
	})

	var b strings.Builder
	b.WriteString("# Scene Cards\n\n")
	b.WriteString("Source: `internal/content/data/cards.json`.\n\n")
	b.WriteString(fmt.Sprintf("Total cards: **%d**.\n\n", len(items)))
	b.WriteString("| # | Scene | Budget | Shots | Roles | Payouts |\n")
	b.WriteString("| --- | --- | --- | --- | --- | --- |\n")
	for _, s := range items {
		b.WriteString("| ")
		b.WriteString(strconv.Itoa(s.Number))
		b.WriteString(" | ")
		b.WriteString(escape(s.Name))
		b.WriteString(" | ")
		b.WriteString(fmt.Sprintf("$%dM", s.Budget))
		b.WriteString(" | ")
		b.WriteString(strconv.Itoa(s.Shots))
		b.WriteString(" | ")
		b.WriteString(escape(formatRoles(s.Roles)))
		b.WriteString(" | ")
		b.WriteString(escape(formatPayouts(s.Payouts)))
		b.WriteString(" |\n")
	}
	return docFile{Name: "cards.md", Title: "Scene Cards", Content: b.String()}
}

func generateExtrasDoc(extras []*game.Role) docFile {
	items := append([]*game.Role(nil), extras...)
	sort.Slice(items, func(i, j int) bool {
		if items[i].Rank != items[j].Rank {
			return items[i].Rank < items[j].Rank
		}
		return items[i].Name < items[j].Name
	})

	var b strings.Builder
	b.WriteString("# Extras\n\n")
	b.WriteString("Extras can be worked on any set that is shooting.\n\n")
	b.WriteString("| Role | Rank | Line |\n")
	b.WriteString("| --- | --- | --- |\n")
	for _, r := range items {
		b.WriteString("| ")
		b.WriteString(escape(r.Name))
		b.WriteString(" | ")
		b.WriteString(strconv.Itoa(r.Rank))
		b.WriteString(" | ")
		b.WriteString(escape(r.Line))
		b.WriteString(" |\n")
	}
	return docFile{Name: "extras.md", Title: "Extras", Content: b.String()}
}

func generateUpgradesDoc() docFile {
	var b strings.Builder
	b.WriteString("# Upgrades\n\n")
	b.WriteString("Source: `internal/game/player.go` (`UpgradeCost`). Ranks are bought at the casting office.\n\n")
	b.WriteString("| Rank | Dollars | Credits |\n")
	b.WriteString("| --- | --- | --- |\n")
	for rank := 2; rank <= game.MaxRank; rank++ {
		dollars, _ := game.UpgradeCost(game.Dollars, rank)
		credits, _ := game.UpgradeCost(game.Credits, rank)
		b.WriteString(fmt.Sprintf("| %d | %d | %d |\n", rank, dollars, credits))
	}
	return docFile{Name: "upgrades.md", Title: "Upgrades", Content: b.String()}
}

func formatRoles(roles []*game.Role) string {
	parts := make([]string, 0, len(roles))
	for _, r := range roles {
		parts = append(parts, r.String())
	}
	return strings.Join(parts, "; ")
}

func formatPayouts(p game.PayoutSchedule) string {
	if p == game.DefaultPayouts() {
		return "standard"
	}
	return fmt.Sprintf("on card %s/%s, extra %s/%s", p.OnCardSuccess, p.OnCardFailure, p.ExtraSuccess, p.ExtraFailure)
}

func kindName(k parser.IntentKind) string {
	switch k {
	case parser.Command:
		return "action"
	case parser.Query:
		return "query"
	case parser.Meta:
		return "meta"
	default:
		return "unknown"
	}
}

func escape(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	v = strings.ReplaceAll(v, "|", "\\|")
	v = strings.ReplaceAll(v, "\n", "<br>")
	return v
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
