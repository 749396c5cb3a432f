package images

import (
	"context"
	"sync"
	"time"

	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editormetrics"
	stack_error "github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/stack-error"
)

const DefaultResolveTimeout = 15 * time.Second

type entry struct {
	src  string
	done bool
}

// Cache хранит результаты разрешения токенов. Lookup не блокируется:
// для нового токена запускается загрузка в фоне, а подписчики OnUpdate
// узнают о ее завершении. После Close результаты загрузок отбрасываются.
type Cache struct {
	resolver Resolver
	timeout  time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	mu           sync.Mutex
	closed       bool
	entries      map[string]*entry
	nextListener int
	listeners    map[int]func(token string)
	wg           sync.WaitGroup
}

func NewCache(resolver Resolver, timeout time.Duration) *Cache {
	if timeout <= 0 {
		timeout = DefaultResolveTimeout
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Cache{
		resolver:  resolver,
		timeout:   timeout,
		ctx:       ctx,
		cancel:    cancel,
		entries:   make(map[string]*entry),
		listeners: make(map[int]func(string)),
	}
}

// Lookup возвращает готовый src. false означает, что изображение загружается
// или загрузить его не удалось.
func (c *Cache) Lookup(token string) (string, bool) {
	if token == "" {
		return "", false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return "", false
	}

	if e, ok := c.entries[token]; ok {
		return e.src, e.done && e.src != ""
	}

	c.entries[token] = &entry{}
	c.wg.Add(1)
	go c.resolve(token)
	return "", false
}

// Prefetch запускает загрузку всех токенов заранее.
func (c *Cache) Prefetch(tokens ...string) {
	for _, t := range tokens {
		c.Lookup(t)
	}
}

func (c *Cache) resolve(token string) {
	defer c.wg.Done()

	ctx, cancel := context.WithTimeout(c.ctx, c.timeout)
	defer cancel()

	src, err := c.resolver.Resolve(ctx, token)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	e := c.entries[token]
	e.done = true
	if err != nil {
		editormetrics.ImageResolveFailures.Inc()
		stack_error.Warn("Image resolve failed", stack_error.TrackErrorStack(err).AddContext("token", token))
	} else {
		e.src = src
	}
	listeners := make([]func(string), 0, len(c.listeners))
	for i := 0; i < c.nextListener; i++ {
		if fn, ok := c.listeners[i]; ok {
			listeners = append(listeners, fn)
		}
	}
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(token)
	}
}

// OnUpdate подписывает fn на завершение загрузки токена (успешной или нет).
func (c *Cache) OnUpdate(fn func(token string)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return func() {}
	}
	id := c.nextListener
	c.nextListener++
	c.listeners[id] = fn
	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

// Forget удаляет токен из кэша, следующий Lookup загрузит его заново.
func (c *Cache) Forget(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[token]; ok && e.done {
		delete(c.entries, token)
	}
}

// Close отменяет загрузки и отписывает всех подписчиков. Повторный вызов ничего не делает.
func (c *Cache) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	clear(c.listeners)
	c.mu.Unlock()
	c.cancel()
}

// Wait дожидается завершения запущенных загрузок.
func (c *Cache) Wait() {
	c.wg.Wait()
}
