// Пакет syncctl связывает редактируемую поверхность с предпросмотром и владельцем документа.
//
// Локальная правка уходит владельцу через onChange и зеркалируется в предпросмотр
// без уведомлений. Документ от владельца заменяет содержимое редактора, кроме
// случая, когда это эхо только что отправленного значения.
package syncctl

import (
	"log/slog"
	"math"
	"sync"

	"github.com/gofrs/uuid"

	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/config"
	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editor/commands"
	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editor/edtypes"
	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editor/sizeguard"
	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editor/surface"
	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editor/transform"
)

type pushState int

const (
	idle pushState = iota
	pushing
)

// Controller - сессия редактирования. Нулевое значение инертно: все методы ничего не делают.
type Controller struct {
	mu       sync.Mutex
	id       uuid.UUID
	cfg      config.Editor
	edit     *surface.Editor
	preview  *surface.Editor
	onChange func(*edtypes.Document)

	lastPushed *edtypes.Document
	push       pushState
	disposed   bool
	tick       uint64

	unsubscribe []func()
}

// New строит обе поверхности над одинаковым содержимым. nil документ заменяется пустым.
func New(initial *edtypes.Document, cfg config.Editor, onChange func(*edtypes.Document)) *Controller {
	if initial == nil || initial.Root == nil {
		initial = edtypes.NewEmptyDocument()
	}

	c := &Controller{
		id:         uuid.Must(uuid.NewV4()),
		cfg:        cfg,
		onChange:   onChange,
		lastPushed: initial.Clone(),
	}
	c.edit = surface.New(initial, surface.WithGuard(sizeguard.New(cfg.MaxChars)))
	c.preview = surface.NewPreview(initial)

	c.unsubscribe = append(c.unsubscribe,
		c.edit.OnChange(c.handleLocalChange),
		c.edit.OnSelectionChange(func(surface.Selection) { c.bumpTick() }),
	)

	slog.Debug("Editing session ready", "session", c.id, "maxChars", cfg.MaxChars, "language", cfg.DefaultCodeLanguage)
	return c
}

// ID - идентификатор сессии, попадает в логи.
func (c *Controller) ID() uuid.UUID {
	return c.id
}

func (c *Controller) ready() bool {
	return c.edit != nil && !c.disposed
}

// handleLocalChange отправляет принятую правку владельцу и зеркалирует ее в предпросмотр.
func (c *Controller) handleLocalChange(doc *edtypes.Document) {
	c.mu.Lock()
	if !c.ready() {
		c.mu.Unlock()
		return
	}
	c.lastPushed = doc.Clone()
	c.push = pushing
	c.tick++
	onChange := c.onChange
	c.mu.Unlock()

	if onChange != nil {
		onChange(doc.Clone())
	}

	c.mu.Lock()
	c.push = idle
	edit, preview := c.edit, c.preview
	ok := c.ready()
	c.mu.Unlock()

	// владелец мог заменить документ внутри onChange
	if ok {
		preview.SetValue(edit.GetValue(), surface.SetOptions{EmitUpdate: false})
	}
}

// SetExternal принимает документ от владельца.
func (c *Controller) SetExternal(doc *edtypes.Document) {
	if doc == nil || doc.Root == nil {
		doc = edtypes.NewEmptyDocument()
	}

	c.mu.Lock()
	if !c.ready() {
		c.mu.Unlock()
		return
	}
	if c.push == pushing && edtypes.Equal(doc, c.lastPushed) {
		c.mu.Unlock()
		slog.Debug("Ignore self echo", "session", c.id)
		return
	}
	edit, preview := c.edit, c.preview
	c.mu.Unlock()

	if edtypes.Equal(doc, edit.GetValue()) {
		preview.SetValue(doc, surface.SetOptions{EmitUpdate: false})
		return
	}

	from := edit.Selection().From()
	edit.SetValue(doc, surface.SetOptions{EmitUpdate: false})
	edit.SetSelection(surface.Cursor(transform.ClampCursor(edit.GetValue(), from)))
	preview.SetValue(doc, surface.SetOptions{EmitUpdate: false})
}

// Dispose отписывает все обработчики и уничтожает поверхности. Повторный вызов ничего не делает.
func (c *Controller) Dispose() {
	c.mu.Lock()
	if !c.ready() {
		c.mu.Unlock()
		return
	}
	c.disposed = true
	unsubscribe := c.unsubscribe
	c.unsubscribe = nil
	c.onChange = nil
	edit, preview := c.edit, c.preview
	c.mu.Unlock()

	for _, fn := range unsubscribe {
		fn()
	}
	edit.Destroy()
	preview.Destroy()
	slog.Debug("Editing session disposed", "session", c.id)
}

// Apply выполняет команду на редактируемой поверхности.
func (c *Controller) Apply(cmd surface.Command) bool {
	edit := c.Editor()
	if edit == nil {
		return false
	}
	return edit.ApplyCommand(cmd)
}

// ToggleCodeBlock переключает блок кода с языком по умолчанию из конфигурации.
func (c *Controller) ToggleCodeBlock() bool {
	return c.Apply(commands.ToggleCodeBlock(c.Config().DefaultCodeLanguage))
}

// Editor возвращает редактируемую поверхность или nil, если сессия не готова.
func (c *Controller) Editor() *surface.Editor {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.ready() {
		return nil
	}
	return c.edit
}

func (c *Controller) Preview() *surface.Editor {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.ready() {
		return nil
	}
	return c.preview
}

func (c *Controller) CharacterCount() int {
	edit := c.Editor()
	if edit == nil {
		return 0
	}
	return edit.CharacterCount()
}

// ReadingMinutes - оценка времени чтения, не меньше минуты.
func (c *Controller) ReadingMinutes() int {
	return ReadingMinutes(c.CharacterCount(), c.Config().ReadingCharsPerMin)
}

// Remaining - сколько символов еще можно ввести, -1 без лимита.
func (c *Controller) Remaining() int {
	edit := c.Editor()
	if edit == nil {
		return 0
	}
	return sizeguard.New(c.Config().MaxChars).Remaining(edit.GetValue())
}

func (c *Controller) Config() config.Editor {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}

// Tick растет при каждой правке и смене выделения, по нему обновляется состояние тулбара.
func (c *Controller) Tick() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tick
}

func (c *Controller) bumpTick() {
	c.mu.Lock()
	c.tick++
	c.mu.Unlock()
}

// Reconfigure меняет лимит и язык по умолчанию, сохраняя текущий документ и выделение.
func (c *Controller) Reconfigure(cfg config.Editor) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	if !c.ready() {
		c.mu.Unlock()
		return nil
	}
	c.cfg = cfg
	edit := c.edit
	c.mu.Unlock()

	edit.SetGuard(sizeguard.New(cfg.MaxChars))
	slog.Debug("Editing session reconfigured", "session", c.id, "maxChars", cfg.MaxChars, "language", cfg.DefaultCodeLanguage)
	return nil
}

// ReadingMinutes округляет время чтения вверх, пустой текст читается за минуту.
func ReadingMinutes(chars, perMinute int) int {
	if perMinute <= 0 {
		perMinute = config.DefaultReadingCharsPerMin
	}
	return max(1, int(math.Ceil(float64(chars)/float64(perMinute))))
}
