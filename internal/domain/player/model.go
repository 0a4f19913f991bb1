package player

import "fmt"

// Player is a real-world athlete. Identity is global: the same PlayerID is
// shared across every league and season the player is observed in.
type Player struct {
	PlayerID          int64
	FullName          string
	DefaultPositionID int
}

func (p Player) Validate() error {
	if p.PlayerID <= 0 {
		return fmt.Errorf("player id must be greater than zero")
	}
	if p.FullName == "" {
		return fmt.Errorf("player full name is required")
	}

	return nil
}
