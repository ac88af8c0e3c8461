package utils

import (
	"strconv"
	"strings"

	"github.com/hiiragi-dev/kakera-ledger/internal/core/domain"
)

// TriggerSigil is the leading character that marks an admin message as a
// potential trigger, matching the gacha bot's own command prefix.
const TriggerSigil = "$"

// exemptMarker directly after the sigil excludes a message from trigger
// recognition ("$!give ..." is never a trigger).
const exemptMarker = "!"

// loanVerbs and repayVerbs are the recognized trigger verb families.
var (
	loanVerbs  = map[string]struct{}{"give": {}, "givek": {}, "lend": {}}
	repayVerbs = map[string]struct{}{"take": {}, "takek": {}, "collect": {}}
)

// ParseTrigger tokenizes a message and reports whether it is a recognized
// trigger: a leading sigil, a verb from a fixed loan or repay family, a
// mention of a target account, and a positive integer amount, in that
// order. Anything else, including the exempt marker, is not a trigger.
// Matching is case-insensitive on the verb.
func ParseTrigger(content string) (domain.Trigger, bool) {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, TriggerSigil) {
		return domain.Trigger{}, false
	}
	if strings.HasPrefix(content, TriggerSigil+exemptMarker) {
		return domain.Trigger{}, false
	}

	fields := strings.Fields(content)
	if len(fields) != 3 {
		return domain.Trigger{}, false
	}

	verb := strings.ToLower(strings.TrimPrefix(fields[0], TriggerSigil))
	var kind domain.ActionKind
	if _, ok := loanVerbs[verb]; ok {
		kind = domain.ActionLoan
	} else if _, ok := repayVerbs[verb]; ok {
		kind = domain.ActionRepay
	} else {
		return domain.Trigger{}, false
	}

	targetID, ok := parseMention(fields[1])
	if !ok {
		return domain.Trigger{}, false
	}

	amount, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil || amount <= 0 {
		return domain.Trigger{}, false
	}

	return domain.Trigger{Kind: kind, TargetID: targetID, Amount: amount}, true
}

// parseMention extracts the user ID from a Discord mention token, accepting
// both the plain (<@123>) and nickname (<@!123>) forms.
func parseMention(token string) (string, bool) {
	if !strings.HasPrefix(token, "<@") || !strings.HasSuffix(token, ">") {
		return "", false
	}
	id := strings.TrimSuffix(strings.TrimPrefix(token, "<@"), ">")
	id = strings.TrimPrefix(id, "!")
	if id == "" {
		return "", false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	return id, true
}

// ConfirmationMatches reports whether a gacha-bot message confirms a
// pending amount: the text must contain the completion keyword
// (case-insensitive) and the exact integer amount. Amounts are compared as
// maximal digit runs so that e.g. 500 does not match inside 1500.
func ConfirmationMatches(content, keyword string, amount int64) bool {
	if !strings.Contains(strings.ToLower(content), strings.ToLower(keyword)) {
		return false
	}

	want := strconv.FormatInt(amount, 10)
	run := strings.Builder{}
	for _, r := range content + " " {
		if r >= '0' && r <= '9' {
			run.WriteRune(r)
			continue
		}
		if run.Len() > 0 {
			if run.String() == want {
				return true
			}
			run.Reset()
		}
	}
	return false
}
