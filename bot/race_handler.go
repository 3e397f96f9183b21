package bot

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"gmbot/models"
	"gmbot/service"
)

// handleRaceCommand routes the race subcommands.
func (b *Bot) handleRaceCommand(req *requestContext) {
	if len(req.args) == 0 {
		b.reply(req.channelID, "사용법: `!경마 준비|테스트|종료`")
		return
	}

	switch req.args[0] {
	case "준비":
		b.handleRacePrepare(req)
	case "테스트":
		b.handleRaceTest(req)
	case "종료":
		b.handleRaceEnd(req)
	default:
		b.reply(req.channelID, fmt.Sprintf("❌ 알 수 없는 경마 명령입니다: %s", req.args[0]))
	}
}

// handleRacePrepare posts the signup message and creates the PREPARED race
// keyed by it.
func (b *Bot) handleRacePrepare(req *requestContext) {
	active, err := b.raceService.ActiveByHost(req.ctx, req.guildID, req.userID)
	if err != nil {
		log.WithField("error", err).Error("Failed to check active race")
		b.reply(req.channelID, "❌ 경마 준비에 실패했습니다. 잠시 후 다시 시도해주세요.")
		return
	}
	if active != nil {
		b.reply(req.channelID, "❌ 이미 진행 중인 경마가 있습니다. `!경마 종료`로 먼저 종료해주세요.")
		return
	}

	name := b.memberService.DisplayName(req.ctx, req.userID, req.guildID)
	content := fmt.Sprintf("🏇 %s님의 경마 준비!\n참가하려면 이 메시지에 원하는 이모지로 반응해주세요.\n%s 반응(주최자)으로 출발합니다!",
		name, b.config.RaceStartReaction)

	msg, err := b.session.ChannelMessageSend(req.channelID, content)
	if err != nil {
		log.WithField("error", err).Error("Failed to send race prep message")
		return
	}

	prepMessageID, err := strconv.ParseInt(msg.ID, 10, 64)
	if err != nil {
		log.WithField("error", err).Error("Failed to parse prep message id")
		return
	}

	if _, err := b.raceService.Prepare(req.ctx, req.guildID, req.userID, prepMessageID); err != nil {
		if errors.Is(err, service.ErrActiveRaceExists) {
			b.reply(req.channelID, "❌ 이미 진행 중인 경마가 있습니다. `!경마 종료`로 먼저 종료해주세요.")
			return
		}
		log.WithField("error", err).Error("Failed to prepare race")
		b.reply(req.channelID, "❌ 경마 준비에 실패했습니다. 잠시 후 다시 시도해주세요.")
	}
}

// handleRaceTest runs the animation over a synthetic roster against the
// host's latest PREPARED race.
func (b *Bot) handleRaceTest(req *requestContext) {
	race, err := b.raceService.LatestPreparedByHost(req.ctx, req.guildID, req.userID)
	if err != nil {
		log.WithField("error", err).Error("Failed to look up prepared race")
		return
	}
	if race == nil {
		b.reply(req.channelID, "❌ 준비된 경마가 없습니다. `!경마 준비`로 먼저 준비해주세요.")
		return
	}

	b.runRace(req.ctx, race, req.channelID, testRoster())
}

// handleRaceEnd force-ends the host's active race, cancelling a running
// animation.
func (b *Bot) handleRaceEnd(req *requestContext) {
	race, err := b.raceService.ActiveByHost(req.ctx, req.guildID, req.userID)
	if err != nil {
		log.WithField("error", err).Error("Failed to look up active race")
		return
	}
	if race == nil {
		b.reply(req.channelID, "❌ 진행 중인 경마가 없습니다.")
		return
	}

	b.runners.cancel(race.ID)
	if err := b.raceService.MarkFinished(req.ctx, race.ID); err != nil {
		log.WithField("error", err).Error("Failed to finish race")
		b.reply(req.channelID, "❌ 경마 종료에 실패했습니다. 잠시 후 다시 시도해주세요.")
		return
	}

	b.reply(req.channelID, "🏁 경마를 종료했습니다.")
}

// startRace handles a start or test reaction on a prep message. Only the
// host may trigger either.
func (b *Bot) startRace(ctx context.Context, race *models.Race, channelID string, reactorID int64, test bool) {
	if reactorID != race.HostUserID {
		hostName := b.memberService.DisplayName(ctx, race.HostUserID, race.GuildID)
		b.reply(channelID, fmt.Sprintf("❌ 경마는 주최자(%s님)만 시작할 수 있습니다.", hostName))
		return
	}

	if test {
		b.runRace(ctx, race, channelID, testRoster())
		return
	}

	entries, err := b.raceService.Roster(ctx, race.ID)
	if err != nil {
		log.WithField("error", err).Error("Failed to load race roster")
		return
	}
	if len(entries) < 2 {
		b.reply(channelID, fmt.Sprintf("❌ 참가자가 부족합니다. (현재 %d명, 최소 2명)", len(entries)))
		return
	}

	lanes := make([]raceLane, len(entries))
	for i, entry := range entries {
		lanes[i] = raceLane{
			Name:  b.memberService.DisplayName(ctx, entry.UserID, race.GuildID),
			Glyph: entry.Glyph(),
		}
	}

	b.runRace(ctx, race, channelID, lanes)
}

// runRace plans finish seconds, transitions the race to STARTED and runs the
// animation on its own goroutine.
func (b *Bot) runRace(ctx context.Context, race *models.Race, channelID string, lanes []raceLane) {
	duration := b.raceDuration()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	entries := make([]*models.RaceEntry, len(lanes))
	for i := range lanes {
		entries[i] = &models.RaceEntry{RaceID: race.ID, UserID: int64(i)}
	}
	for i, plan := range service.AssignFinishSeconds(rng, entries, duration) {
		lanes[i].Finish = plan.FinishSecond
	}

	msg, err := b.session.ChannelMessageSend(channelID, renderFrame(lanes, 0, duration))
	if err != nil {
		log.WithField("error", err).Error("Failed to send race message")
		return
	}
	raceMessageID, err := strconv.ParseInt(msg.ID, 10, 64)
	if err != nil {
		log.WithField("error", err).Error("Failed to parse race message id")
		return
	}

	if err := b.raceService.MarkStarted(ctx, race.ID, raceMessageID, len(lanes)); err != nil {
		log.WithField("error", err).Error("Failed to mark race started")
		return
	}

	runCtx, cancel := context.WithCancel(context.Background())
	if !b.runners.acquire(race.ID, cancel) {
		cancel()
		log.WithField("raceID", race.ID).Warn("Race animation already running")
		return
	}

	runner := &raceRunner{
		raceID:    race.ID,
		channelID: channelID,
		messageID: msg.ID,
		lanes:     lanes,
		duration:  duration,
		interval:  b.raceTickInterval(),
		editor:    b,
	}

	go func() {
		defer b.runners.release(race.ID)
		runner.Run(runCtx)

		// A force-end already finished the race itself.
		if runCtx.Err() != nil {
			return
		}

		finishCtx, finishCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer finishCancel()
		if err := b.raceService.MarkFinished(finishCtx, race.ID); err != nil {
			log.WithFields(log.Fields{
				"raceID": race.ID,
				"error":  err,
			}).Error("Failed to mark race finished")
		}
	}()
}

// testRoster is the synthetic field used by the rehearsal mode.
func testRoster() []raceLane {
	names := []string{"Alice", "Bob", "Charlie", "Dave", "Eve", "Frank", "Grace", "Heidi"}
	glyphs := []string{"🐎", "🦄", "🐴", "🏇"}

	lanes := make([]raceLane, len(names))
	for i, name := range names {
		lanes[i] = raceLane{Name: name, Glyph: glyphs[i%len(glyphs)]}
	}
	return lanes
}
