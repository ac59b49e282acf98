package notifier

import (
	"github.com/sondagsholdet/courtmix/internal/league"
	"github.com/sondagsholdet/courtmix/internal/standings"
)

// Notifier announces league events to the club channel.
type Notifier interface {
	// SendRoundPlanned announces a freshly planned round: court assignments
	// and who sits out. names maps player ids to display names.
	SendRoundPlanned(round *league.Round, names map[string]string, dryRun bool) error
	// SendRoundClosed announces a committed round with the top of the table.
	SendRoundClosed(round *league.Round, table []standings.PlayerStanding, dryRun bool) error
}
