// Пакет sizeguard ограничивает количество символов в документе.
//
// Проверка транзакционная: правка либо принимается целиком, либо отклоняется
// целиком. Отклоняются только правки, которые увеличивают число символов
// сверх лимита. Удаление и форматирование проходят всегда, даже если
// документ уже превышает лимит (например, загружен извне).
package sizeguard

import (
	"log/slog"

	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editor/edtypes"
	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editormetrics"
)

// DefaultMaxChars - лимит по умолчанию.
const DefaultMaxChars = 20000

type Decision int

const (
	Accept Decision = iota
	Reject
)

func (d Decision) String() string {
	if d == Reject {
		return "reject"
	}
	return "accept"
}

// Guard - чистая функция проверки, общего состояния нет.
// MaxChars <= 0 отключает лимит.
type Guard struct {
	MaxChars int
}

func New(maxChars int) *Guard {
	return &Guard{MaxChars: maxChars}
}

// Check решает судьбу правки prev -> next.
func (g *Guard) Check(prev, next *edtypes.Document) Decision {
	if g == nil || g.MaxChars <= 0 {
		return Accept
	}

	nextCount := next.CharCount()
	if nextCount <= g.MaxChars {
		return Accept
	}

	prevCount := prev.CharCount()
	if nextCount <= prevCount {
		return Accept
	}

	editormetrics.SizeGuardRejections.Inc()
	slog.Debug("Edit rejected by character limit", "max", g.MaxChars, "prev", prevCount, "next", nextCount)
	return Reject
}

// Allows - удобная обертка над Check.
func (g *Guard) Allows(prev, next *edtypes.Document) bool {
	return g.Check(prev, next) == Accept
}

// Remaining возвращает сколько символов еще можно добавить, 0 если лимит исчерпан.
// Без лимита возвращает -1.
func (g *Guard) Remaining(doc *edtypes.Document) int {
	if g == nil || g.MaxChars <= 0 {
		return -1
	}
	if r := g.MaxChars - doc.CharCount(); r > 0 {
		return r
	}
	return 0
}
