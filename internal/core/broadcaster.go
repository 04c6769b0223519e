package core

import (
	"sync"

	"gloom-server/pkg/api"
)

// Broadcaster занимается только рассылкой снимков подписчикам
type Broadcaster struct {
	mu          sync.RWMutex
	subscribers map[chan *api.Snapshot]bool
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[chan *api.Snapshot]bool),
	}
}

// Subscribe создает канал для нового клиента
func (b *Broadcaster) Subscribe() chan *api.Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan *api.Snapshot, 100)
	b.subscribers[ch] = true
	return ch
}

// Unsubscribe удаляет клиента
func (b *Broadcaster) Unsubscribe(ch chan *api.Snapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subscribers[ch]; ok {
		delete(b.subscribers, ch)
		close(ch)
	}
}

// SubscriberCount возвращает число подключенных клиентов (для /health)
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Broadcast отправляет снимок всем
func (b *Broadcaster) Broadcast(snap *api.Snapshot) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subscribers {
		select {
		case ch <- snap:
		default:
			// Пропускаем медленных клиентов
		}
	}
}
