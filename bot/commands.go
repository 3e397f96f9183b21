package bot

import (
	"fmt"
	"strings"

	"gmbot/models"
)

// commandSpec is one entry of the closed dispatch table.
type commandSpec struct {
	name        string
	aliases     []string
	minRole     models.RoleLevel
	usage       string
	description string
	handler     func(b *Bot, req *requestContext)
}

// commandTable routes command names (and aliases) to their specs.
type commandTable struct {
	specs  []*commandSpec
	byName map[string]*commandSpec
}

func newCommandTable() *commandTable {
	specs := []*commandSpec{
		{
			name:        "잔고확인",
			aliases:     []string{"잔고"},
			minRole:     models.RoleUser,
			usage:       "!잔고확인",
			description: "보유 중인 모든 재화의 잔고를 확인합니다",
			handler:     (*Bot).handleBalances,
		},
		{
			name:        "입금",
			minRole:     models.RoleUser,
			usage:       "!입금 <재화> <금액>",
			description: "재화를 입금합니다",
			handler:     (*Bot).handleDeposit,
		},
		{
			name:        "인출",
			minRole:     models.RoleUser,
			usage:       "!인출 <재화> <금액>",
			description: "재화를 인출합니다",
			handler:     (*Bot).handleWithdraw,
		},
		{
			name:        "복권",
			minRole:     models.RoleUser,
			usage:       "!복권",
			description: "달란트 1개로 복권을 긁습니다",
			handler:     (*Bot).handleLotteryPlay,
		},
		{
			name:        "복권통계",
			minRole:     models.RoleUser,
			usage:       "!복권통계",
			description: "복권 당첨 내역과 수익률을 확인합니다",
			handler:     (*Bot).handleLotteryStats,
		},
		{
			name:        "달란트지급",
			minRole:     models.RoleAdmin,
			usage:       "!달란트지급 <닉네임> <금액>",
			description: "닉네임으로 지정한 멤버에게 달란트를 지급합니다",
			handler:     (*Bot).handleGrantTalent,
		},
		{
			name:        "경마",
			minRole:     models.RoleUser,
			usage:       "!경마 준비|테스트|종료",
			description: "경마를 준비하고, 테스트하고, 종료합니다",
			handler:     (*Bot).handleRaceCommand,
		},
		{
			name:        "가입",
			minRole:     models.RoleUser,
			usage:       "!가입",
			description: "멤버로 등록합니다",
			handler:     (*Bot).handleRegister,
		},
		{
			name:        "관리자확인",
			minRole:     models.RoleAdmin,
			usage:       "!관리자확인",
			description: "관리자 권한을 확인합니다",
			handler:     (*Bot).handleAdminCheck,
		},
		{
			name:        "역할지정",
			minRole:     models.RoleDeveloper,
			usage:       "!역할지정 <닉네임> <USER|ADMIN|DEVELOPER>",
			description: "멤버의 역할을 변경합니다",
			handler:     (*Bot).handleSetRole,
		},
		{
			name:        "명령어",
			aliases:     []string{"도움말"},
			minRole:     models.RoleUser,
			usage:       "!명령어",
			description: "사용 가능한 명령어를 보여줍니다",
			handler:     (*Bot).handleHelp,
		},
	}

	byName := make(map[string]*commandSpec)
	for _, spec := range specs {
		byName[spec.name] = spec
		for _, alias := range spec.aliases {
			byName[alias] = spec
		}
	}

	return &commandTable{specs: specs, byName: byName}
}

// lookup resolves a typed command name to its spec.
func (t *commandTable) lookup(name string) (*commandSpec, bool) {
	spec, ok := t.byName[name]
	return spec, ok
}

// helpText lists every command visible at the caller's role level.
func (t *commandTable) helpText(role models.RoleLevel) string {
	var sb strings.Builder
	sb.WriteString("📖 명령어 목록\n")
	for _, spec := range t.specs {
		if spec.minRole > role {
			continue
		}
		fmt.Fprintf(&sb, "`%s` — %s\n", spec.usage, spec.description)
	}
	return sb.String()
}
