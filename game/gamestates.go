package game

import "fmt"

// GameState represents the main states of a session
type GameState int

const (
	MainMenu GameState = iota
	GameSetup
	PlayerTurn
	Processing
	GameOver
	Paused
)

var gameStateNames = []string{"MainMenu", "GameSetup", "PlayerTurn", "Processing", "GameOver", "Paused"}

func (gs GameState) String() string {
	if gs < MainMenu || int(gs) >= len(gameStateNames) {
		return fmt.Sprintf("GameState(%d)", int(gs))
	}
	return gameStateNames[gs]
}

// MarshalText implements encoding.TextMarshaler
func (gs GameState) MarshalText() ([]byte, error) {
	return []byte(gs.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (gs *GameState) UnmarshalText(text []byte) error {
	for i, name := range gameStateNames {
		if name == string(text) {
			*gs = GameState(i)
			return nil
		}
	}
	return fmt.Errorf("unknown game state %q", text)
}

// active states are the ones in which the turn timer runs
func (gs GameState) active() bool {
	return gs == PlayerTurn || gs == Processing
}

// TurnPhase represents the steps of a single player's turn
type TurnPhase int

const (
	StartTurn TurnPhase = iota
	DrawPhase
	ActionPhase
	EndTurn
)

var turnPhaseNames = []string{"StartTurn", "DrawPhase", "ActionPhase", "EndTurn"}

func (tp TurnPhase) String() string {
	if tp < StartTurn || int(tp) >= len(turnPhaseNames) {
		return fmt.Sprintf("TurnPhase(%d)", int(tp))
	}
	return turnPhaseNames[tp]
}

// MarshalText implements encoding.TextMarshaler
func (tp TurnPhase) MarshalText() ([]byte, error) {
	return []byte(tp.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (tp *TurnPhase) UnmarshalText(text []byte) error {
	for i, name := range turnPhaseNames {
		if name == string(text) {
			*tp = TurnPhase(i)
			return nil
		}
	}
	return fmt.Errorf("unknown turn phase %q", text)
}

// canTransition reports whether a session may move from one state to another.
// GameOver is terminal except for starting a new game or leaving to the menu.
func canTransition(from, to GameState) bool {
	if from == to {
		return false
	}

	switch to {
	case MainMenu, GameSetup:
		return true
	case GameOver:
		return from != MainMenu
	case PlayerTurn:
		return from == GameSetup || from == Processing || from == Paused
	case Processing:
		return from == PlayerTurn
	case Paused:
		return from == GameSetup || from == PlayerTurn || from == Processing
	}

	return false
}
