package playerref

import "errors"

// ErrLoadPlayers marks a reference file that exists but could not be read or decoded.
var ErrLoadPlayers = errors.New("playerref: load players")
