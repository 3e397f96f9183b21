package bot

import (
	"context"

	"gmbot/models"
)

// requestContext carries everything one inbound command needs: the resolved
// member, the routing ids and the parsed arguments. It is built per event and
// passed explicitly down the handler chain; nothing about the caller lives in
// shared state.
type requestContext struct {
	ctx       context.Context
	guildID   int64
	userID    int64
	channelID string
	member    *models.Member
	args      []string
}
