package surface

import (
	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editor/edtypes"
	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editor/transform"
)

// Selection - выделение в позиционной модели документа. Anchor - неподвижный конец.
type Selection struct {
	Anchor int
	Head   int
}

// Cursor - пустое выделение в позиции pos.
func Cursor(pos int) Selection {
	return Selection{Anchor: pos, Head: pos}
}

func (s Selection) From() int {
	return min(s.Anchor, s.Head)
}

func (s Selection) To() int {
	return max(s.Anchor, s.Head)
}

func (s Selection) Empty() bool {
	return s.Anchor == s.Head
}

// clamp приводит выделение в границы документа. Пустое выделение
// ставится в ближайший текстовый блок, чтобы в нем можно было печатать.
func (s Selection) clamp(doc *edtypes.Document) Selection {
	if s.Empty() {
		return Cursor(transform.ClampCursor(doc, s.Head))
	}
	size := doc.ContentSize()
	return Selection{
		Anchor: max(0, min(s.Anchor, size)),
		Head:   max(0, min(s.Head, size)),
	}
}

// State - снимок состояния поверхности. Команды получают копию и не должны менять Doc.
type State struct {
	Doc         *edtypes.Document
	Selection   Selection
	StoredMarks []edtypes.Mark
}

// ResolvedFrom возвращает разобранную начальную позицию выделения.
func (st State) ResolvedFrom() *transform.ResolvedPos {
	return transform.ResolveClamped(st.Doc, st.Selection.From())
}

// ResolvedTo возвращает разобранную конечную позицию выделения.
func (st State) ResolvedTo() *transform.ResolvedPos {
	return transform.ResolveClamped(st.Doc, st.Selection.To())
}

// Transaction описывает изменение состояния. Пустая транзакция ничего не меняет,
// но считается обработанной.
type Transaction struct {
	before      *edtypes.Document
	doc         *edtypes.Document
	selection   *Selection
	storedMarks []edtypes.Mark
	storedSet   bool
}

// NewTransaction начинает транзакцию поверх состояния st.
func NewTransaction(st State) *Transaction {
	return &Transaction{before: st.Doc}
}

// SetDoc заменяет документ.
func (tr *Transaction) SetDoc(doc *edtypes.Document) *Transaction {
	tr.doc = doc
	return tr
}

func (tr *Transaction) SetSelection(sel Selection) *Transaction {
	tr.selection = &sel
	return tr
}

// SetStoredMarks задает метки для следующего ввода. nil сбрасывает их.
func (tr *Transaction) SetStoredMarks(marks []edtypes.Mark) *Transaction {
	tr.storedMarks = marks
	tr.storedSet = true
	return tr
}

// Doc возвращает документ после транзакции.
func (tr *Transaction) Doc() *edtypes.Document {
	if tr.doc != nil {
		return tr.doc
	}
	return tr.before
}

// DocChanged сообщает, отличается ли новый документ от исходного структурно.
func (tr *Transaction) DocChanged() bool {
	return tr.doc != nil && !edtypes.Equal(tr.before, tr.doc)
}

// Command строит транзакцию по состоянию. nil означает, что команда неприменима.
type Command func(st State) *Transaction
