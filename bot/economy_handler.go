package bot

import (
	"fmt"
	"strconv"

	log "github.com/sirupsen/logrus"

	"gmbot/models"
	"gmbot/service"
)

// handleBalances renders all resource balances for the caller.
func (b *Bot) handleBalances(req *requestContext) {
	balances, err := b.economyService.Balances(req.ctx, req.userID, req.guildID)
	if err != nil {
		log.WithField("error", err).Error("Failed to get balances")
		b.reply(req.channelID, "❌ 잔고를 확인할 수 없습니다. 잠시 후 다시 시도해주세요.")
		return
	}

	name := b.memberService.DisplayName(req.ctx, req.userID, req.guildID)
	message := fmt.Sprintf("💰 %s님의 잔고\n%s: %d\n%s: %d\n%s: %d",
		name,
		service.ResourceDisplayName(models.ResourceVault), balances[models.ResourceVault],
		service.ResourceDisplayName(models.ResourceTalent), balances[models.ResourceTalent],
		service.ResourceDisplayName(models.ResourceLuckyDice), balances[models.ResourceLuckyDice],
	)
	b.reply(req.channelID, message)
}

// parseResourceAmount validates the shared "<재화> <금액>" argument shape.
func (b *Bot) parseResourceAmount(req *requestContext, usage string) (models.ResourceKind, int64, bool) {
	if len(req.args) != 2 {
		b.reply(req.channelID, fmt.Sprintf("사용법: `%s`", usage))
		return "", 0, false
	}

	kind, ok := service.ResolveResourceKind(req.args[0])
	if !ok {
		b.reply(req.channelID, fmt.Sprintf("❌ 알 수 없는 재화입니다: %s", req.args[0]))
		return "", 0, false
	}

	amount, err := strconv.ParseInt(req.args[1], 10, 64)
	if err != nil || amount <= 0 {
		b.reply(req.channelID, "❌ 금액은 1 이상의 정수여야 합니다.")
		return "", 0, false
	}

	return kind, amount, true
}

// handleDeposit credits the caller's wallet.
func (b *Bot) handleDeposit(req *requestContext) {
	kind, amount, ok := b.parseResourceAmount(req, "!입금 <재화> <금액>")
	if !ok {
		return
	}

	balance, err := b.economyService.Credit(req.ctx, req.userID, req.guildID, kind, amount, models.ReasonDeposit)
	if err != nil {
		log.WithField("error", err).Error("Failed to deposit")
		b.reply(req.channelID, "❌ 입금에 실패했습니다. 잠시 후 다시 시도해주세요.")
		return
	}

	display := service.ResourceDisplayName(kind)
	b.reply(req.channelID, fmt.Sprintf("✅ %s %d 입금 완료 (잔액: %d)", display, amount, balance))
}

// handleWithdraw debits the caller's wallet.
func (b *Bot) handleWithdraw(req *requestContext) {
	kind, amount, ok := b.parseResourceAmount(req, "!인출 <재화> <금액>")
	if !ok {
		return
	}

	succeeded, balance, err := b.economyService.Debit(req.ctx, req.userID, req.guildID, kind, amount, models.ReasonWithdraw)
	if err != nil {
		log.WithField("error", err).Error("Failed to withdraw")
		b.reply(req.channelID, "❌ 인출에 실패했습니다. 잠시 후 다시 시도해주세요.")
		return
	}

	display := service.ResourceDisplayName(kind)
	if !succeeded {
		b.reply(req.channelID, fmt.Sprintf("❌ 잔액이 부족합니다. (현재 %s: %d)", display, balance))
		return
	}

	b.reply(req.channelID, fmt.Sprintf("✅ %s %d 인출 완료 (잔액: %d)", display, amount, balance))
}
