package bracket

import "errors"

var (
	ErrInvalidRoster      = errors.New("invalid roster")
	ErrUnknownMatch       = errors.New("unknown match")
	ErrInvalidWinner      = errors.New("winner is not part of this match")
	ErrMatchResolved      = errors.New("match already resolved")
	ErrRoundNotComplete   = errors.New("round has unresolved matches")
	ErrTournamentComplete = errors.New("tournament already completed")
)
