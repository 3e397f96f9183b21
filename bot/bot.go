package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"gmbot/events"
	"gmbot/service"

	"github.com/bwmarrin/discordgo"
)

// Config holds bot configuration
type Config struct {
	Token               string
	CommandPrefix       string
	RaceDurationSeconds int
	RaceStartReaction   string
	RaceTestReaction    string
}

type Bot struct {
	config         Config
	session        *discordgo.Session
	economyService service.EconomyService
	lotteryService service.LotteryService
	memberService  service.MemberService
	raceService    service.RaceService
	eventBus       *events.Bus
	commands       *commandTable
	runners        *runnerRegistry
}

func New(config Config, economyService service.EconomyService, lotteryService service.LotteryService, memberService service.MemberService, raceService service.RaceService, eventBus *events.Bus) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsAll

	bot := &Bot{
		config:         config,
		session:        dg,
		economyService: economyService,
		lotteryService: lotteryService,
		memberService:  memberService,
		raceService:    raceService,
		eventBus:       eventBus,
		commands:       newCommandTable(),
		runners:        newRunnerRegistry(),
	}

	dg.AddHandler(bot.handleMessageCreate)
	dg.AddHandler(bot.handleReactionAdd)
	dg.AddHandler(bot.handleReactionRemove)

	// Open websocket connection
	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	return bot, nil
}

func (b *Bot) Close() error {
	b.runners.cancelAll()
	return b.session.Close()
}

// handleMessageCreate dispatches prefix commands.
func (b *Bot) handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return
	}
	if !strings.HasPrefix(m.Content, b.config.CommandPrefix) {
		return
	}

	fields := strings.Fields(strings.TrimPrefix(m.Content, b.config.CommandPrefix))
	if len(fields) == 0 {
		return
	}

	spec, ok := b.commands.lookup(fields[0])
	if !ok {
		return
	}

	req, err := b.buildRequestContext(m)
	if err != nil {
		log.WithFields(log.Fields{
			"content": m.Content,
			"error":   err,
		}).Error("Failed to build request context")
		return
	}
	req.args = fields[1:]

	if err := service.RequireMinimumRole(req.member, spec.minRole); err != nil {
		var authErr *service.AuthorizationError
		if errors.As(err, &authErr) {
			b.reply(req.channelID, fmt.Sprintf("⛔ 권한이 부족합니다. %s 이상 필요 (현재: %s)", authErr.Required, authErr.Actual))
			return
		}
		log.WithField("error", err).Error("Authorization check failed")
		return
	}

	spec.handler(b, req)
}

// buildRequestContext resolves ids and upserts the caller's membership before
// any command logic runs.
func (b *Bot) buildRequestContext(m *discordgo.MessageCreate) (*requestContext, error) {
	guildID, err := strconv.ParseInt(m.GuildID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse guild id %q: %w", m.GuildID, err)
	}
	userID, err := strconv.ParseInt(m.Author.ID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse user id %q: %w", m.Author.ID, err)
	}

	var nickname *string
	if m.Member != nil && m.Member.Nick != "" {
		nick := m.Member.Nick
		nickname = &nick
	}

	guildName := m.GuildID
	if guild, err := b.session.State.Guild(m.GuildID); err == nil && guild != nil {
		guildName = guild.Name
	}

	ctx := context.Background()
	member, err := b.memberService.EnsureMember(ctx, userID, m.Author.Username, guildID, guildName, nickname)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure member: %w", err)
	}

	return &requestContext{
		ctx:       ctx,
		guildID:   guildID,
		userID:    userID,
		channelID: m.ChannelID,
		member:    member,
	}, nil
}

// handleReactionAdd routes reactions on race prep messages: the start and
// test glyphs trigger host actions, anything else is a roster join.
func (b *Bot) handleReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	if r.UserID == s.State.User.ID || r.GuildID == "" {
		return
	}

	guildID, err := strconv.ParseInt(r.GuildID, 10, 64)
	if err != nil {
		return
	}
	userID, err := strconv.ParseInt(r.UserID, 10, 64)
	if err != nil {
		return
	}
	messageID, err := strconv.ParseInt(r.MessageID, 10, 64)
	if err != nil {
		return
	}

	ctx := context.Background()

	race, err := b.raceService.RaceForPrepMessage(ctx, messageID)
	if err != nil {
		log.WithField("error", err).Error("Failed to resolve race for reaction")
		return
	}
	if race == nil {
		return
	}

	// Keep the registry fresh; reactions carry the member payload.
	if r.Member != nil && r.Member.User != nil {
		var nickname *string
		if r.Member.Nick != "" {
			nick := r.Member.Nick
			nickname = &nick
		}
		guildName := r.GuildID
		if guild, err := b.session.State.Guild(r.GuildID); err == nil && guild != nil {
			guildName = guild.Name
		}
		if _, err := b.memberService.EnsureMember(ctx, userID, r.Member.User.Username, guildID, guildName, nickname); err != nil {
			log.WithField("error", err).Warn("Failed to ensure reacting member")
		}
	}

	emoji := r.Emoji.Name
	switch {
	case b.isStartReaction(emoji):
		b.startRace(ctx, race, r.ChannelID, userID, false)
	case emoji == b.config.RaceTestReaction:
		b.startRace(ctx, race, r.ChannelID, userID, true)
	default:
		joined, err := b.raceService.Join(ctx, messageID, userID, emoji)
		if err != nil {
			log.WithField("error", err).Error("Failed to join race")
			return
		}
		if joined {
			name := b.memberService.DisplayName(ctx, userID, guildID)
			b.reply(r.ChannelID, fmt.Sprintf("%s %s님이 경마에 참가했습니다!", emoji, name))
		}
	}
}

// handleReactionRemove withdraws a participant while the race is PREPARED.
func (b *Bot) handleReactionRemove(s *discordgo.Session, r *discordgo.MessageReactionRemove) {
	if r.UserID == s.State.User.ID || r.GuildID == "" {
		return
	}
	if b.isStartReaction(r.Emoji.Name) || r.Emoji.Name == b.config.RaceTestReaction {
		return
	}

	userID, err := strconv.ParseInt(r.UserID, 10, 64)
	if err != nil {
		return
	}
	messageID, err := strconv.ParseInt(r.MessageID, 10, 64)
	if err != nil {
		return
	}

	ctx := context.Background()
	removed, err := b.raceService.Leave(ctx, messageID, userID)
	if err != nil {
		log.WithField("error", err).Error("Failed to leave race")
		return
	}
	if removed {
		guildID, err := strconv.ParseInt(r.GuildID, 10, 64)
		if err != nil {
			return
		}
		name := b.memberService.DisplayName(ctx, userID, guildID)
		b.reply(r.ChannelID, fmt.Sprintf("👋 %s님이 경마 참가를 취소했습니다.", name))
	}
}

// startReactionVariants are the flag glyphs accepted as a start trigger in
// addition to the configured one.
var startReactionVariants = map[string]bool{
	"🏁": true,
	"🚩": true,
	"🎌": true,
}

func (b *Bot) isStartReaction(emoji string) bool {
	return emoji == b.config.RaceStartReaction || startReactionVariants[emoji]
}

func (b *Bot) raceDuration() int {
	if b.config.RaceDurationSeconds > 0 {
		return b.config.RaceDurationSeconds
	}
	return 20
}

func (b *Bot) raceTickInterval() time.Duration {
	return time.Second
}

// reply posts a plain message to a channel, logging send failures.
func (b *Bot) reply(channelID, content string) {
	if _, err := b.session.ChannelMessageSend(channelID, content); err != nil {
		log.WithFields(log.Fields{
			"channelID": channelID,
			"error":     err,
		}).Error("Failed to send message")
	}
}

// EditMessage implements messageEditor over the Discord session.
func (b *Bot) EditMessage(channelID, messageID, content string) error {
	_, err := b.session.ChannelMessageEdit(channelID, messageID, content)
	return err
}
