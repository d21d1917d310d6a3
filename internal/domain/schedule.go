package domain

// GameEntry is one scheduled game. Home and Away are 1-based team ids.
type GameEntry struct {
	Date   Date
	Home   int
	Away   int
	Status int
}

// Appearance is a played game from one team's point of view.
type Appearance struct {
	Date Date
	Home bool
}
