package chess

type BracketFormat string

const (
	FormatSingleElimination BracketFormat = "single_elimination"
	FormatSwiss             BracketFormat = "swiss"
)

// GameType is immutable reference data describing a round format.
// Rows are seeded by migration and looked up by id.
type GameType struct {
	ID         int           `db:"id" json:"id"`
	Name       string        `db:"name" json:"name"`
	Format     BracketFormat `db:"format" json:"format"`
	MinPlayers int           `db:"min_players" json:"min_players"`

	// SwissRounds is the configured round count for Swiss formats.
	// Zero for elimination formats, where the round count is derived
	// from the roster size instead.
	SwissRounds int `db:"swiss_rounds" json:"swiss_rounds"`
}
