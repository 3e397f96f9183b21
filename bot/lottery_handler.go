package bot

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
)

// handleLotteryPlay spends 1 talent on a lottery draw.
func (b *Bot) handleLotteryPlay(req *requestContext) {
	result, err := b.lotteryService.Play(req.ctx, req.userID, req.guildID)
	if err != nil {
		log.WithField("error", err).Error("Failed to play lottery")
		b.reply(req.channelID, "❌ 복권 구매에 실패했습니다. 잠시 후 다시 시도해주세요.")
		return
	}

	if !result.Succeeded {
		b.reply(req.channelID, fmt.Sprintf("❌ 달란트가 부족합니다. (달란트: %d)", result.TalentBalance))
		return
	}

	name := b.memberService.DisplayName(req.ctx, req.userID, req.guildID)
	b.reply(req.channelID, fmt.Sprintf("🎰 %s님 복권 당첨금: %dg! (금고: %d, 달란트: %d)",
		name, result.Payout, result.VaultBalance, result.TalentBalance))
}

// handleLotteryStats renders the caller's lottery history and return rate.
func (b *Bot) handleLotteryStats(req *requestContext) {
	stats, err := b.lotteryService.Stats(req.ctx, req.userID, req.guildID)
	if err != nil {
		log.WithField("error", err).Error("Failed to get lottery stats")
		b.reply(req.channelID, "❌ 복권 통계를 확인할 수 없습니다. 잠시 후 다시 시도해주세요.")
		return
	}

	if stats.Plays == 0 {
		b.reply(req.channelID, "복권 구매 내역이 없습니다.")
		return
	}

	var sb strings.Builder
	name := b.memberService.DisplayName(req.ctx, req.userID, req.guildID)
	fmt.Fprintf(&sb, "🎰 %s님의 복권 통계\n```\n", name)
	for _, entry := range stats.Entries {
		fmt.Fprintf(&sb, "%s %04dg\n", entry.CreatedAt.Format("06/01/02"), entry.Delta)
	}
	sb.WriteString("```\n")
	fmt.Fprintf(&sb, "구매 횟수: %d회\n", stats.Plays)
	fmt.Fprintf(&sb, "총 당첨금: %dg\n", stats.Total)
	fmt.Fprintf(&sb, "기대값: %dg\n", stats.Expected)
	fmt.Fprintf(&sb, "수익률: %.1f%%", stats.ROIPercent)
	b.reply(req.channelID, sb.String())
}
