package bot

import (
	"fmt"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"gmbot/models"
)

// handleRegister confirms the caller's membership, which the dispatch path
// already upserted.
func (b *Bot) handleRegister(req *requestContext) {
	name := b.memberService.DisplayName(req.ctx, req.userID, req.guildID)
	b.reply(req.channelID, fmt.Sprintf("✅ 가입 완료! %s님 환영합니다.", name))
}

// handleAdminCheck is an ADMIN-gated ping; reaching it proves the role.
func (b *Bot) handleAdminCheck(req *requestContext) {
	b.reply(req.channelID, "✅ 관리자 권한이 확인되었습니다.")
}

// handleGrantTalent credits talent to a member looked up by guild nickname.
func (b *Bot) handleGrantTalent(req *requestContext) {
	if len(req.args) != 2 {
		b.reply(req.channelID, "사용법: `!달란트지급 <닉네임> <금액>`")
		return
	}

	nickname := req.args[0]
	amount, err := strconv.ParseInt(req.args[1], 10, 64)
	if err != nil || amount <= 0 {
		b.reply(req.channelID, "❌ 금액은 1 이상의 정수여야 합니다.")
		return
	}

	member, balance, err := b.memberService.GrantByNickname(req.ctx, req.guildID, nickname, models.ResourceTalent, amount)
	if err != nil {
		log.WithField("error", err).Error("Failed to grant talent")
		b.reply(req.channelID, "❌ 지급에 실패했습니다. 잠시 후 다시 시도해주세요.")
		return
	}
	if member == nil {
		b.reply(req.channelID, fmt.Sprintf("❌ 닉네임 '%s' 멤버를 찾을 수 없습니다.", nickname))
		return
	}

	b.reply(req.channelID, fmt.Sprintf("✅ %s님에게 달란트 %d 지급 완료 (잔액: %d)", member.DisplayName(), amount, balance))
}

// roleNames maps the role argument of the role command onto levels.
var roleNames = map[string]models.RoleLevel{
	"USER":      models.RoleUser,
	"ADMIN":     models.RoleAdmin,
	"DEVELOPER": models.RoleDeveloper,
}

// handleSetRole changes a member's role, looked up by guild nickname.
func (b *Bot) handleSetRole(req *requestContext) {
	if len(req.args) != 2 {
		b.reply(req.channelID, "사용법: `!역할지정 <닉네임> <USER|ADMIN|DEVELOPER>`")
		return
	}

	role, ok := roleNames[strings.ToUpper(req.args[1])]
	if !ok {
		b.reply(req.channelID, "❌ 역할은 USER, ADMIN, DEVELOPER 중 하나여야 합니다.")
		return
	}

	nickname := req.args[0]
	target, err := b.memberService.FindByNickname(req.ctx, req.guildID, nickname)
	if err != nil {
		log.WithField("error", err).Error("Failed to find member by nickname")
		b.reply(req.channelID, "❌ 역할 변경에 실패했습니다. 잠시 후 다시 시도해주세요.")
		return
	}
	if target == nil {
		b.reply(req.channelID, fmt.Sprintf("❌ 닉네임 '%s' 멤버를 찾을 수 없습니다.", nickname))
		return
	}

	if err := b.memberService.SetRole(req.ctx, target.UserID, req.guildID, role); err != nil {
		log.WithField("error", err).Error("Failed to set role")
		b.reply(req.channelID, "❌ 역할 변경에 실패했습니다. 잠시 후 다시 시도해주세요.")
		return
	}

	b.reply(req.channelID, fmt.Sprintf("✅ %s님의 역할이 %s(으)로 변경되었습니다.", target.DisplayName(), role))
}

// handleHelp lists commands available at the caller's role.
func (b *Bot) handleHelp(req *requestContext) {
	role := models.RoleUser
	if req.member != nil {
		role = req.member.Role
	}
	b.reply(req.channelID, b.commands.helpText(role))
}
