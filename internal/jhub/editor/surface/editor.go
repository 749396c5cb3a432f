// Пакет surface содержит поверхности документа: редактируемую и предпросмотр.
//
// Поверхность хранит текущий документ, выделение и подписчиков. Все изменения
// документа командами проходят через ограничитель размера, если он задан.
// Подписчики вызываются вне блокировки, поэтому из обработчика можно
// обращаться к этой же поверхности.
package surface

import (
	"log/slog"
	"sync"

	"github.com/gofrs/uuid"

	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editor/edtypes"
	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editor/sizeguard"
)

// SetOptions - параметры замены значения.
type SetOptions struct {
	// EmitUpdate - уведомлять ли подписчиков на изменение.
	EmitUpdate bool
}

// Surface - общий интерфейс редактируемой поверхности и предпросмотра.
type Surface interface {
	GetValue() *edtypes.Document
	SetValue(doc *edtypes.Document, opts SetOptions)
	ApplyCommand(cmd Command) bool
	OnChange(fn func(*edtypes.Document)) (unsubscribe func())
	Editable() bool
	Destroy()
}

type Option func(*Editor)

// WithGuard включает ограничение размера для команд.
func WithGuard(g *sizeguard.Guard) Option {
	return func(e *Editor) {
		e.guard = g
	}
}

// ReadOnly делает поверхность нередактируемой.
func ReadOnly() Option {
	return func(e *Editor) {
		e.editable = false
	}
}

// Editor - реализация Surface.
type Editor struct {
	mu        sync.Mutex
	id        uuid.UUID
	editable  bool
	destroyed bool
	guard     *sizeguard.Guard
	state     State

	nextListener       int
	changeListeners    map[int]func(*edtypes.Document)
	selectionListeners map[int]func(Selection)
}

var _ Surface = (*Editor)(nil)

// New создает редактируемую поверхность. nil документ заменяется пустым.
func New(initial *edtypes.Document, opts ...Option) *Editor {
	if initial == nil || initial.Root == nil {
		initial = edtypes.NewEmptyDocument()
	}
	e := &Editor{
		id:                 uuid.Must(uuid.NewV4()),
		editable:           true,
		changeListeners:    make(map[int]func(*edtypes.Document)),
		selectionListeners: make(map[int]func(Selection)),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.state = State{Doc: initial.Clone(), Selection: Cursor(1).clamp(initial)}
	return e
}

// NewPreview создает поверхность только для чтения.
func NewPreview(initial *edtypes.Document) *Editor {
	return New(initial, ReadOnly())
}

// SetGuard меняет ограничитель размера для следующих команд. nil снимает ограничение.
func (e *Editor) SetGuard(g *sizeguard.Guard) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.guard = g
}

func (e *Editor) ID() uuid.UUID {
	return e.id
}

func (e *Editor) Editable() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.editable && !e.destroyed
}

// GetValue возвращает копию текущего документа.
func (e *Editor) GetValue() *edtypes.Document {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Doc.Clone()
}

// State возвращает снимок состояния.
func (e *Editor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot()
}

func (e *Editor) snapshot() State {
	st := State{
		Doc:       e.state.Doc.Clone(),
		Selection: e.state.Selection,
	}
	// пустой, но не nil набор означает "ввод без меток"
	if e.state.StoredMarks != nil {
		st.StoredMarks = make([]edtypes.Mark, len(e.state.StoredMarks))
		for i, m := range e.state.StoredMarks {
			st.StoredMarks[i] = m.Clone()
		}
	}
	return st
}

func (e *Editor) Selection() Selection {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Selection
}

// CharacterCount - количество символов текущего документа.
func (e *Editor) CharacterCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Doc.CharCount()
}

// SetValue заменяет документ целиком, минуя ограничитель размера.
// Выделение приводится в границы нового документа.
func (e *Editor) SetValue(doc *edtypes.Document, opts SetOptions) {
	if doc == nil || doc.Root == nil {
		doc = edtypes.NewEmptyDocument()
	}

	e.mu.Lock()
	if e.destroyed {
		e.mu.Unlock()
		return
	}
	e.state.Doc = doc.Clone()
	e.state.Selection = e.state.Selection.clamp(e.state.Doc)
	e.state.StoredMarks = nil
	listeners := e.changeSubscribers(opts.EmitUpdate)
	value := e.state.Doc
	e.mu.Unlock()

	notify(listeners, value)
}

// SetSelection меняет выделение без изменения документа.
func (e *Editor) SetSelection(sel Selection) {
	e.mu.Lock()
	if e.destroyed {
		e.mu.Unlock()
		return
	}
	sel = sel.clamp(e.state.Doc)
	changed := sel != e.state.Selection
	e.state.Selection = sel
	e.state.StoredMarks = nil
	listeners := e.selectionSubscribers(changed)
	e.mu.Unlock()

	for _, fn := range listeners {
		fn(sel)
	}
}

// ApplyCommand выполняет команду. Возвращает false, если поверхность
// только для чтения, команда неприменима или правка отклонена ограничителем.
func (e *Editor) ApplyCommand(cmd Command) bool {
	if cmd == nil || !e.Editable() {
		return false
	}
	tr := cmd(e.State())
	if tr == nil {
		return false
	}
	return e.Dispatch(tr)
}

// Dispatch применяет транзакцию атомарно: при отказе ограничителя состояние
// не меняется и подписчики не вызываются.
func (e *Editor) Dispatch(tr *Transaction) bool {
	e.mu.Lock()
	if e.destroyed || !e.editable {
		e.mu.Unlock()
		return false
	}

	docChanged := tr.DocChanged()
	next := e.state
	if docChanged {
		if !e.guard.Allows(e.state.Doc, tr.doc) {
			slog.Debug("Transaction rejected", "surface", e.id, "chars", tr.doc.CharCount())
			e.mu.Unlock()
			return false
		}
		next.Doc = ensureTrailingParagraph(tr.doc.Clone())
		next.StoredMarks = nil
	}
	if tr.selection != nil {
		next.Selection = *tr.selection
	}
	next.Selection = next.Selection.clamp(next.Doc)
	if tr.storedSet {
		next.StoredMarks = tr.storedMarks
	}

	selChanged := next.Selection != e.state.Selection
	e.state = next
	changeListeners := e.changeSubscribers(docChanged)
	selListeners := e.selectionSubscribers(selChanged)
	value := next.Doc
	sel := next.Selection
	e.mu.Unlock()

	notify(changeListeners, value)
	for _, fn := range selListeners {
		fn(sel)
	}
	return true
}

// OnChange подписывает fn на изменения документа. Обработчик получает копию.
func (e *Editor) OnChange(fn func(*edtypes.Document)) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return func() {}
	}
	id := e.nextListener
	e.nextListener++
	e.changeListeners[id] = fn
	return func() {
		e.mu.Lock()
		delete(e.changeListeners, id)
		e.mu.Unlock()
	}
}

// OnSelectionChange подписывает fn на изменения выделения.
func (e *Editor) OnSelectionChange(fn func(Selection)) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return func() {}
	}
	id := e.nextListener
	e.nextListener++
	e.selectionListeners[id] = fn
	return func() {
		e.mu.Lock()
		delete(e.selectionListeners, id)
		e.mu.Unlock()
	}
}

// Destroy отписывает всех подписчиков. Дальнейшие вызовы ничего не делают.
func (e *Editor) Destroy() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return
	}
	e.destroyed = true
	clear(e.changeListeners)
	clear(e.selectionListeners)
	slog.Debug("Surface destroyed", "surface", e.id)
}

func (e *Editor) changeSubscribers(emit bool) []func(*edtypes.Document) {
	if !emit {
		return nil
	}
	res := make([]func(*edtypes.Document), 0, len(e.changeListeners))
	for i := 0; i < e.nextListener; i++ {
		if fn, ok := e.changeListeners[i]; ok {
			res = append(res, fn)
		}
	}
	return res
}

func (e *Editor) selectionSubscribers(emit bool) []func(Selection) {
	if !emit {
		return nil
	}
	res := make([]func(Selection), 0, len(e.selectionListeners))
	for i := 0; i < e.nextListener; i++ {
		if fn, ok := e.selectionListeners[i]; ok {
			res = append(res, fn)
		}
	}
	return res
}

func notify(listeners []func(*edtypes.Document), doc *edtypes.Document) {
	for _, fn := range listeners {
		fn(doc.Clone())
	}
}

// ensureTrailingParagraph добавляет пустой параграф в конец документа,
// если последний блок не текстовый.
func ensureTrailingParagraph(doc *edtypes.Document) *edtypes.Document {
	blocks := doc.Blocks()
	if len(blocks) == 0 || !blocks[len(blocks)-1].IsTextblock() {
		doc.Root.Content = append(doc.Root.Content, &edtypes.Node{Type: edtypes.ParagraphNode})
	}
	return doc
}
