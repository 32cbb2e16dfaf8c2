// Package persona holds the selectable reply-style configurations and the
// spend-alert tier policy.
package persona

import (
	"fmt"
	"math/rand"
	"strings"
)

// Persona identifies one reply voice.
type Persona int

const (
	MalaysianMum Persona = iota + 1
	MalaysianBoyfriend
	MalaysianGirlfriend
	AbangBomba
)

// Phrasebank is one persona's templates per alert tier. Templates may use
// {category} and {pct} placeholders.
type Phrasebank struct {
	Name        string
	Emoji       string
	HardWarning []string
	SoftWarning []string
	Praise      []string
}

var phrasebanks = map[Persona]Phrasebank{
	MalaysianMum: {
		Name:  "Malaysian Mum",
		Emoji: "👩‍👧",
		HardWarning: []string{
			"Aiyo {category} already over budget lah sayang! {pct}% already! Must control ah!",
		},
		SoftWarning: []string{
			"Eh sayang, {category} almost finish budget liao ah ({pct}%). Careful ok?",
		},
		Praise: []string{
			"Wah pandai! So good at saving, mum proud of you sayang!",
		},
	},
	MalaysianBoyfriend: {
		Name:  "Malaysian Boyfriend",
		Emoji: "💁‍♂️",
		HardWarning: []string{
			"Babe GG liao, {category} over budget already ({pct}%)!",
		},
		SoftWarning: []string{
			"Babe {category} almost habis liao weh ({pct}%). Jom jimat sikit?",
		},
		Praise: []string{
			"Steady lah babe! Champion saver right here!",
		},
	},
	MalaysianGirlfriend: {
		Name:  "Malaysian Girlfriend",
		Emoji: "💁‍♀️",
		HardWarning: []string{
			"Haiya you ah! {category} over budget liao ({pct}%)!",
		},
		SoftWarning: []string{
			"Alamak sayang, {category} almost finish ({pct}%). Save some for us lah!",
		},
		Praise: []string{
			"Yasss queen! Glow up your wallet like this!",
		},
	},
	AbangBomba: {
		Name:  "Abang Bomba",
		Emoji: "🚒",
		HardWarning: []string{
			"Amaran wira! {category} sudah melampaui bajet ({pct}%)! Bahaya!",
		},
		SoftWarning: []string{
			"Wira, {category} mencapai {pct}%. Kawal perbelanjaan!",
		},
		Praise: []string{
			"Syabas wira! Kawalan bajet cemerlang!",
		},
	},
}

// FromToken maps a menu token "1".."4" to a persona.
func FromToken(token string) (Persona, bool) {
	switch token {
	case "1":
		return MalaysianMum, true
	case "2":
		return MalaysianBoyfriend, true
	case "3":
		return MalaysianGirlfriend, true
	case "4":
		return AbangBomba, true
	}
	return 0, false
}

// FromID maps a stored persona id back to a persona, defaulting to
// MalaysianMum for unknown ids, matching the original fallback.
func FromID(id string) Persona {
	if p, ok := FromToken(id); ok {
		return p
	}
	return MalaysianMum
}

// Token is the storage form of a persona, the same "1".."4" the user typed.
func (p Persona) Token() string {
	return fmt.Sprintf("%d", int(p))
}

// Book returns the persona's phrasebank.
func (p Persona) Book() Phrasebank {
	if b, ok := phrasebanks[p]; ok {
		return b
	}
	return phrasebanks[MalaysianMum]
}

// Tier is the spend-alert flavor class selected by budget percentage.
type Tier int

const (
	TierNone Tier = iota
	TierPraise
	TierSoftWarning
	TierHardWarning
)

// TierFor selects the alert tier for an integer MTD percentage.
// The [70,80) band deliberately yields no flavor text.
func TierFor(pct int) Tier {
	switch {
	case pct >= 100:
		return TierHardWarning
	case pct >= 80:
		return TierSoftWarning
	case pct < 70:
		return TierPraise
	default:
		return TierNone
	}
}

// Line picks a uniformly random template for the tier and fills in the
// category and percentage. It returns "" for TierNone or an empty tier.
func (p Persona) Line(tier Tier, category string, pct int) string {
	book := p.Book()
	var pool []string
	switch tier {
	case TierHardWarning:
		pool = book.HardWarning
	case TierSoftWarning:
		pool = book.SoftWarning
	case TierPraise:
		pool = book.Praise
	default:
		return ""
	}
	if len(pool) == 0 {
		return ""
	}
	tpl := pool[rand.Intn(len(pool))]
	tpl = strings.ReplaceAll(tpl, "{category}", category)
	tpl = strings.ReplaceAll(tpl, "{pct}", fmt.Sprintf("%d", pct))
	return tpl
}
