package input

import "github.com/Mshel/gridsnake/internal/game"

// keySymbols covers bubbletea key names and browser KeyboardEvent.key values.
var keySymbols = map[string]game.Symbol{
	"up":         game.SymbolUp,
	"w":          game.SymbolUp,
	"ArrowUp":    game.SymbolUp,
	"down":       game.SymbolDown,
	"s":          game.SymbolDown,
	"ArrowDown":  game.SymbolDown,
	"left":       game.SymbolLeft,
	"a":          game.SymbolLeft,
	"ArrowLeft":  game.SymbolLeft,
	"right":      game.SymbolRight,
	"d":          game.SymbolRight,
	"ArrowRight": game.SymbolRight,
}

func SymbolForKey(key string) (game.Symbol, bool) {
	sym, ok := keySymbols[key]
	return sym, ok
}
